package repository

import (
	"context"

	"wordcards/internal/models"
	"wordcards/internal/storage"
)

type SessionRepository struct {
	store storage.Store
	key   string
}

func NewSessionRepository(store storage.Store, key string) *SessionRepository {
	return &SessionRepository{store: store, key: key}
}

// Load reads the session log
func (r *SessionRepository) Load(ctx context.Context) (models.SessionLog, error) {
	var log models.SessionLog
	if err := readJSON(ctx, r.store, r.key, &log); err != nil {
		return models.SessionLog{}, err
	}
	return log, nil
}

// Save writes the session log
func (r *SessionRepository) Save(ctx context.Context, log models.SessionLog) error {
	return writeJSON(ctx, r.store, r.key, log)
}
