// Package storage provides the key-value persistence used for learner state.
// Every backend stores whole JSON snapshots under string keys.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("storage: store is closed")

// Store is a synchronous string key-value provider
type Store interface {
	// Get returns the value under key; found is false when the key is absent
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set writes one complete value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error
	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
	Close() error
}
