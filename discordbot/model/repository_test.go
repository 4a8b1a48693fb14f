package model

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/eientei/blueprint/template"
	redis "github.com/go-redis/redis/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	srv, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(srv.Close)

	return NewRepository(redis.NewClient(&redis.Options{
		Addr: srv.Addr(),
	}))
}

func TestConfig(t *testing.T) {
	repo := newTestRepository(t)

	v, err := repo.ConfigGet("g1", "template", "clean")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, repo.ConfigSet("g1", "template", "clean", "false"))

	v, err = repo.ConfigGet("g1", "template", "clean")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	require.NoError(t, repo.ConfigDel("g1", "template", "clean"))

	v, err = repo.ConfigGet("g1", "template", "clean")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestSnapshots(t *testing.T) {
	repo := newTestRepository(t)

	doc := &template.Document{
		Name:                  "guild",
		Roles:                 []template.Role{{Name: "Admin", Permissions: 8}},
		Categories:            []template.Category{},
		UncategorizedChannels: []template.Channel{},
		ExportedAt:            "2024-01-01T00:00:00.000Z",
	}

	for _, name := range []string{"20240101", "20240102", "20240103"} {
		require.NoError(t, repo.SnapshotSave("g1", name, doc, 2))
	}

	names, err := repo.SnapshotList("g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"20240102", "20240103"}, names)

	got, err := repo.SnapshotGet("g1", "20240103")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	_, err = repo.SnapshotGet("g1", "20240101")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, repo.SnapshotDel("g1", "20240102"))
	assert.ErrorIs(t, repo.SnapshotDel("g1", "20240102"), ErrSnapshotNotFound)

	names, err = repo.SnapshotList("g2")
	require.NoError(t, err)
	assert.Empty(t, names)
}
