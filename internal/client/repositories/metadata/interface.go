// Package metadata is a small key/value table in the local SQLite database.
// It backs persisted preferences, the stored session token and the local
// password accounts.
package metadata

import (
	"context"
)

// Repository stores opaque values by key. Get returns common.ErrNotFound
// for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
