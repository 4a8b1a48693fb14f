// Package model provides guild configuration and template snapshot repository
package model

import (
	"errors"

	redis "github.com/go-redis/redis/v7"
)

var (
	// ErrSnapshotNotFound is returned when requested snapshot does not exist
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// NewRepository provides Repository instance
func NewRepository(client *redis.Client) *Repository {
	return &Repository{
		Client: client,
	}
}
