// Package store persists the session between runs: the auth token, the
// signed-in user, the remember-me flag and saved login credentials.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get for a key that has never been set.
var ErrNotFound = errors.New("store: key not found")

// KV is a flat string-keyed byte store. Implementations must be safe for
// concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
