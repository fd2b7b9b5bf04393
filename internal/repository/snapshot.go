package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wordcards/internal/storage"
)

var (
	// ErrNotFound means no snapshot has been stored under the key yet
	ErrNotFound = errors.New("repository: snapshot not found")
	// ErrCorrupt means the stored snapshot could not be decoded
	ErrCorrupt = errors.New("repository: snapshot is corrupt")
)

// readJSON decodes the value under key into dest
func readJSON(ctx context.Context, store storage.Store, key string, dest any) error {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

// writeJSON encodes value and stores it under key as one complete snapshot
func writeJSON(ctx context.Context, store storage.Store, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return store.Set(ctx, key, string(data))
}
