// Package storage defines the string key-value medium that holds session state.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Batcher is implemented by stores that can apply several writes as one unit.
type Batcher interface {
	SetMany(ctx context.Context, entries map[string]string) error
}
