package templates

import (
	"testing"
	"time"

	"github.com/eientei/blueprint/history"
	"github.com/eientei/blueprint/template"

	"github.com/stretchr/testify/assert"
)

func TestRoleColor(t *testing.T) {
	assert.Equal(t, "", RoleColor(0))
	assert.Equal(t, "#ff0000", RoleColor(0xff0000))
	assert.Equal(t, "#1abc9c", RoleColor(0x1abc9c))
}

func TestSummary(t *testing.T) {
	doc := &template.Document{
		Name:       "Guild",
		ExportedAt: "2024-05-06T06:08:09.010Z",
		Roles: []template.Role{
			{Name: "Admin", Color: 0xff0000, Permissions: template.Flags["Administrator"]},
			{Name: "Mod", Permissions: template.Flags["KickMembers"] | template.Flags["BanMembers"]},
			{Name: "@everyone"},
		},
		Categories: []template.Category{
			{Name: "Text", Channels: []template.Channel{{Name: "general"}, {Name: "memes"}}},
		},
		UncategorizedChannels: []template.Channel{{Name: "rules"}},
	}

	out := Summary(doc)

	assert.Contains(t, out, "**Guild** exported at 2024-05-06T06:08:09.010Z\n")
	assert.Contains(t, out, "3 roles, 1 categories, 3 channels\n")
	assert.Contains(t, out, "Admin `#ff0000` Administrator\nMod BanMembers, KickMembers\n@everyone\n")
	assert.Contains(t, out, "Text (2)\n  #general\n  #memes\n#rules\n")
}

func TestRenderHistory(t *testing.T) {
	assert.Equal(t, "no runs recorded", RenderHistory(nil))

	out := RenderHistory([]history.Entry{
		{
			Kind:      history.KindImport,
			Name:      "guild-template.json",
			UserID:    "u1",
			Summary:   "cleaned: nothing changed\nimported: roles: 2 created",
			StartedAt: time.Date(2024, 5, 6, 6, 8, 9, 0, time.UTC),
		},
	})

	assert.Equal(t,
		"`2024-05-06 06:08` **import** guild-template.json by <@u1>: cleaned: nothing changed; imported: roles: 2 created\n",
		out,
	)
}
