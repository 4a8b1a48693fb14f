package model

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/eientei/blueprint/template"

	redis "github.com/go-redis/redis/v7"
)

// Repository provides methods to get and set configuration, save and load template snapshots
type Repository struct {
	Client *redis.Client
}

// ConfigSet sets config value for given guild
func (repo *Repository) ConfigSet(guildID, scope, key, value string) error {
	fullkey := fmt.Sprintf("%s.%s.%s", guildID, scope, key)
	cmd := repo.Client.Set(fullkey, value, 0)

	return cmd.Err()
}

// ConfigGet returns config value for given guild
func (repo *Repository) ConfigGet(guildID, scope, key string) (s string, err error) {
	fullkey := fmt.Sprintf("%s.%s.%s", guildID, scope, key)
	s, err = repo.Client.Get(fullkey).Result()

	if err == redis.Nil {
		err = nil
	}

	return
}

// ConfigDel deletes config value for given guild
func (repo *Repository) ConfigDel(guildID, scope, key string) error {
	fullkey := fmt.Sprintf("%s.%s.%s", guildID, scope, key)

	return repo.Client.Del(fullkey).Err()
}

func snapshotKey(guildID string) string {
	return fmt.Sprintf("%s.template.snapshots", guildID)
}

// SnapshotSave stores document under given name, keeping at most keep newest snapshots
func (repo *Repository) SnapshotSave(guildID, name string, doc *template.Document, keep int) error {
	buf := &bytes.Buffer{}

	err := template.Encode(buf, doc)
	if err != nil {
		return err
	}

	key := snapshotKey(guildID)

	err = repo.Client.HSet(key, name, buf.String()).Err()
	if err != nil {
		return err
	}

	if keep <= 0 {
		return nil
	}

	names, err := repo.SnapshotList(guildID)
	if err != nil {
		return err
	}

	if len(names) <= keep {
		return nil
	}

	return repo.Client.HDel(key, names[:len(names)-keep]...).Err()
}

// SnapshotGet loads stored document
func (repo *Repository) SnapshotGet(guildID, name string) (*template.Document, error) {
	raw, err := repo.Client.HGet(snapshotKey(guildID), name).Result()
	if err == redis.Nil {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, err
	}

	return template.Decode(bytes.NewBufferString(raw))
}

// SnapshotList returns sorted snapshot names
func (repo *Repository) SnapshotList(guildID string) ([]string, error) {
	names, err := repo.Client.HKeys(snapshotKey(guildID)).Result()
	if err != nil {
		return nil, err
	}

	sort.Strings(names)

	return names, nil
}

// SnapshotDel removes stored document
func (repo *Repository) SnapshotDel(guildID, name string) error {
	n, err := repo.Client.HDel(snapshotKey(guildID), name).Result()
	if err != nil {
		return err
	}

	if n == 0 {
		return ErrSnapshotNotFound
	}

	return nil
}
