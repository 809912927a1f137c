// Package store persists one JSON document per dataset behind a small
// key-value interface. Three backends are available: local files (the
// default), redis, and postgres.
package store

import (
	"context"
	"fmt"
)

// Store is the blob store for dataset batches. Load returns a nil payload
// (and nil error) when the dataset has never been saved.
type Store interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, payload []byte) error
	Close() error
}

// Settings selects and configures a backend.
type Settings struct {
	Backend     string // "file", "redis" or "postgres"
	DataDir     string
	RedisURL    string
	DatabaseURL string
}

// Open builds the configured backend.
func Open(ctx context.Context, s Settings) (Store, error) {
	switch s.Backend {
	case "file", "":
		return NewFileStore(s.DataDir), nil
	case "redis":
		return NewRedisStore(ctx, s.RedisURL)
	case "postgres":
		return NewPostgresStore(ctx, s.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", s.Backend)
	}
}
