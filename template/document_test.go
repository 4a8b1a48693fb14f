package template

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequiresRolesAndCategories(t *testing.T) {
	cases := map[string]string{
		"missing roles":      `{"name":"x","categories":[]}`,
		"missing categories": `{"name":"x","roles":[]}`,
		"null roles":         `{"roles":null,"categories":[]}`,
		"not json":           `roles: []`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(raw))
			require.ErrorIs(t, err, ErrInvalidTemplate)
		})
	}
}

func TestDecodeAcceptsEmptyCollections(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"name":"x","roles":[],"categories":[]}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Roles)
	assert.Empty(t, doc.UncategorizedChannels)
}

func TestEncodeIndentedCamelCase(t *testing.T) {
	doc := &Document{
		Name: "My Guild",
		Roles: []Role{
			{Name: "Admin", Color: 0xff0000, Position: 2, Permissions: 8},
		},
		Categories:            []Category{},
		UncategorizedChannels: []Channel{},
		ExportedAt:            "2024-01-02T03:04:05.000Z",
	}

	buf := &bytes.Buffer{}
	require.NoError(t, Encode(buf, doc))

	out := buf.String()
	assert.Contains(t, out, "\n  \"roles\": [")
	assert.Contains(t, out, `"uncategorizedChannels": []`)
	assert.Contains(t, out, `"exportedAt": "2024-01-02T03:04:05.000Z"`)
	assert.Contains(t, out, `"permissions": "8"`)

	back, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "My Guild-template.json", FileName(&Document{Name: "My Guild"}))
	assert.Equal(t, "a_b-template.json", FileName(&Document{Name: "a/b"}))
}

func TestPermissionsUnmarshal(t *testing.T) {
	cases := []struct {
		raw  string
		want Permissions
	}{
		{`"1024"`, 1024},
		{`2048`, 2048},
		{`""`, 0},
		{`null`, 0},
		{`[]`, 0},
		{`["ViewChannel","SendMessages"]`, 1<<10 | 1<<11},
		{`["Administrator","16"]`, 8 | 16},
	}

	for _, c := range cases {
		var p Permissions

		require.NoError(t, json.Unmarshal([]byte(c.raw), &p), c.raw)
		assert.Equal(t, c.want, p, c.raw)
	}

	var p Permissions

	assert.Error(t, json.Unmarshal([]byte(`["NoSuchFlag"]`), &p))
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &p))
}

func TestPermissionsNames(t *testing.T) {
	p := Flags["ViewChannel"] | Flags["ManageGuildExpressions"]

	assert.Equal(t, []string{"ManageEmojisAndStickers", "ViewChannel"}, p.Names())
	assert.True(t, p.Has(Flags["ViewChannel"]))
	assert.False(t, p.Has(Flags["Administrator"]))
}
