package repository

import (
	"context"

	"wordcards/internal/models"
	"wordcards/internal/storage"
)

type ProgressRepository struct {
	store storage.Store
	key   string
}

func NewProgressRepository(store storage.Store, key string) *ProgressRepository {
	return &ProgressRepository{store: store, key: key}
}

// Load reads the progress snapshot; returns ErrNotFound or ErrCorrupt for unusable data
func (r *ProgressRepository) Load(ctx context.Context) (*models.UserProgress, error) {
	var progress models.UserProgress
	if err := readJSON(ctx, r.store, r.key, &progress); err != nil {
		return nil, err
	}

	if progress.FamilyProgress == nil {
		progress.FamilyProgress = make(map[string]*models.StudyProgress)
	}
	for id, fp := range progress.FamilyProgress {
		if fp == nil {
			delete(progress.FamilyProgress, id)
			continue
		}
		fp.FamilyID = id
		if fp.CompletedWords == nil {
			fp.CompletedWords = []string{}
		}
	}
	return &progress, nil
}

// Save writes the full progress snapshot
func (r *ProgressRepository) Save(ctx context.Context, progress *models.UserProgress) error {
	return writeJSON(ctx, r.store, r.key, progress)
}
