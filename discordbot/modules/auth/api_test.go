package auth

import (
	"testing"

	"github.com/eientei/blueprint/discordbot/bot"
	"github.com/eientei/blueprint/discordbot/router"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/discordgo"
	redis "github.com/go-redis/redis/v7"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBot(t *testing.T) *bot.Bot {
	srv, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(srv.Close)

	dg, err := discordgo.New("Bot test")
	require.NoError(t, err)

	log, _ := test.NewNullLogger()

	b, err := bot.NewBot(bot.Options{
		Discord: dg,
		Client:  redis.NewClient(&redis.Options{Addr: srv.Addr()}),
		Log:     log,
		Modules: []bot.Module{New()},
	})
	require.NoError(t, err)

	return b
}

func interaction(guildID string, perms int64) *discordgo.Interaction {
	i := &discordgo.Interaction{
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: guildID,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "template",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "export", Type: discordgo.ApplicationCommandOptionSubCommand},
			},
		},
	}

	if guildID != "" {
		i.Member = &discordgo.Member{
			User:        &discordgo.User{ID: "u1"},
			Permissions: perms,
		}
	} else {
		i.User = &discordgo.User{ID: "u1"}
	}

	return i
}

func TestMiddlewareAuth(t *testing.T) {
	b := newTestBot(t)

	var calls int

	b.Router.Group("template").Set(RouteConfigKey, Admin())
	b.Router.On("template", "export", "exports", func(ctx *router.Context) error {
		calls++

		return nil
	})

	err := b.Router.Dispatch(nil, interaction("", 0))
	assert.ErrorIs(t, err, ErrGuildOnly)

	err = b.Router.Dispatch(nil, interaction("g1", discordgo.PermissionManageMessages))
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, 0, calls)

	err = b.Router.Dispatch(nil, interaction("g1", discordgo.PermissionAdministrator))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestMiddlewareSkipsUnconfiguredRoutes(t *testing.T) {
	b := newTestBot(t)

	var called bool

	b.Router.Group("help").Handle("prints help", func(ctx *router.Context) error {
		called = true

		return nil
	})

	err := b.Router.Dispatch(nil, &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{Name: "help"},
	})
	require.NoError(t, err)
	assert.True(t, called)
}
