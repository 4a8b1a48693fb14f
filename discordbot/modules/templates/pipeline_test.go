package templates

import (
	"context"
	"testing"

	"github.com/eientei/blueprint/template"
	"github.com/eientei/blueprint/template/templatetest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineGuild() *templatetest.Session {
	fake := templatetest.New("g1")
	fake.Roles = []*discordgo.Role{
		{ID: "g1", Name: "@everyone"},
		{ID: "old", Name: "old", Position: 1},
		{ID: "bot", Name: "bot", Position: 2, Permissions: discordgo.PermissionAdministrator},
	}
	fake.Channels = []*discordgo.Channel{
		{ID: "stale", Name: "stale"},
	}
	fake.Members["botuser"] = &discordgo.Member{
		User:  &discordgo.User{ID: "botuser"},
		Roles: []string{"bot"},
	}

	return fake
}

func pipelineDocument() *template.Document {
	return &template.Document{
		Name: "Guild",
		Roles: []template.Role{
			{Name: "Member", Position: 1, Color: 0x00ff00},
		},
		Categories: []template.Category{
			{ID: "c", Name: "Text", Channels: []template.Channel{{Name: "general"}}},
		},
	}
}

func TestPipelineCleansThenImports(t *testing.T) {
	fake := pipelineGuild()

	var progress []string

	res, err := (&Pipeline{
		Session: fake,
		Progress: func(text string) {
			progress = append(progress, text)
		},
	}).Apply(context.Background(), "g1", "botuser", pipelineDocument(), true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Cleaning guild...",
		"Creating roles...",
		"Creating categories...",
		"Creating channels...",
		"Creating uncategorized channels...",
	}, progress)

	require.NotNil(t, res.Cleaned)
	assert.Equal(t, 1, res.Cleaned.Deleted[template.KindRole])
	assert.Equal(t, 1, res.Cleaned.Deleted[template.KindChannel])
	assert.Equal(t, 1, res.Imported.Created[template.KindRole])
	assert.Equal(t, 0, res.Failures())
	assert.Equal(t,
		"cleaned: roles: 1 deleted; channels: 1 deleted\n"+
			"imported: roles: 1 created; categories: 1 created; channels: 1 created",
		res.String(),
	)

	var names []string
	for _, c := range fake.Channels {
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{"Text", "general"}, names)
}

func TestPipelineWithoutClean(t *testing.T) {
	fake := pipelineGuild()

	res, err := (&Pipeline{Session: fake}).Apply(context.Background(), "g1", "botuser", pipelineDocument(), false)
	require.NoError(t, err)

	assert.Nil(t, res.Cleaned)
	assert.Empty(t, fake.CallsOf("ChannelDelete"))
	assert.Empty(t, fake.CallsOf("GuildRoleDelete"))
	assert.Len(t, fake.Channels, 3)
}

func TestPipelineInvalidDocumentSkipsClean(t *testing.T) {
	fake := pipelineGuild()

	_, err := (&Pipeline{Session: fake}).Apply(context.Background(), "g1", "botuser", &template.Document{}, true)
	require.ErrorIs(t, err, template.ErrInvalidTemplate)
	assert.Empty(t, fake.Calls)
}

func TestPipelineCleanFailureAborts(t *testing.T) {
	fake := pipelineGuild()

	_, err := (&Pipeline{Session: fake}).Apply(context.Background(), "g1", "nobody", pipelineDocument(), true)
	require.Error(t, err)
	assert.Empty(t, fake.CallsOf("GuildRoleCreate"))
}
