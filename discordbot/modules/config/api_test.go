package config

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/eientei/blueprint/discordbot/bot"
	"github.com/eientei/blueprint/discordbot/router"
	"github.com/eientei/blueprint/discordbot/router/routertest"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/discordgo"
	redis "github.com/go-redis/redis/v7"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBot(t *testing.T) (*bot.Bot, *miniredis.Miniredis, *discordgo.Session, *routertest.Recorder) {
	srv, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(srv.Close)

	session, rec, err := routertest.NewSession()
	require.NoError(t, err)

	log, _ := test.NewNullLogger()

	b, err := bot.NewBot(bot.Options{
		Discord: session,
		Client:  redis.NewClient(&redis.Options{Addr: srv.Addr()}),
		Log:     log,
		Modules: []bot.Module{New()},
	})
	require.NoError(t, err)

	return b, srv, session, rec
}

func TestConfigSetGetDel(t *testing.T) {
	b, srv, session, rec := newTestBot(t)

	err := b.Router.Dispatch(session, routertest.Interaction("config", "set",
		routertest.String("key", "template.clean"),
		routertest.String("value", "false"),
	))
	require.NoError(t, err)

	v, err := srv.Get("g1.template.clean")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	err = b.Router.Dispatch(session, routertest.Interaction("config", "get", routertest.String("key", "template.clean")))
	require.NoError(t, err)

	responses := rec.Responses()
	require.Len(t, responses, 2)
	assert.Equal(t, "saved", responses[0].Content)
	assert.Equal(t, "```\nfalse```", responses[1].Embeds[0].Description)

	err = b.Router.Dispatch(session, routertest.Interaction("config", "del", routertest.String("key", "template.clean")))
	require.NoError(t, err)
	assert.False(t, srv.Exists("g1.template.clean"))

	err = b.Router.Dispatch(session, routertest.Interaction("config", "get"))
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestConfigListTruncated(t *testing.T) {
	b, srv, session, rec := newTestBot(t)

	for i := 0; i < 200; i++ {
		require.NoError(t, srv.Set(fmt.Sprintf("g1.key.%03d", i), strings.Repeat("v", 40)))
	}

	require.NoError(t, srv.Set("g2.other", "hidden"))

	err := b.Router.Dispatch(session, routertest.Interaction("config", "list"))
	require.NoError(t, err)

	responses := rec.Responses()
	require.Len(t, responses, 1)

	desc := responses[0].Embeds[0].Description

	assert.Equal(t, router.MaxDescription, utf8.RuneCountInString(desc))
	assert.True(t, strings.HasPrefix(desc, "```\nkey.000: "))
	assert.True(t, strings.HasSuffix(desc, "…```"))
	assert.NotContains(t, desc, "hidden")
}
