package repository

import (
	"context"

	"wordcards/internal/models"
	"wordcards/internal/storage"
)

type AchievementRepository struct {
	store           storage.Store
	achievementsKey string
	statsKey        string
}

func NewAchievementRepository(store storage.Store, achievementsKey, statsKey string) *AchievementRepository {
	return &AchievementRepository{store: store, achievementsKey: achievementsKey, statsKey: statsKey}
}

// LoadRecords reads the persisted unlock records
func (r *AchievementRepository) LoadRecords(ctx context.Context) ([]models.AchievementRecord, error) {
	var records []models.AchievementRecord
	if err := readJSON(ctx, r.store, r.achievementsKey, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveRecords writes the unlock records of every achievement
func (r *AchievementRepository) SaveRecords(ctx context.Context, records []models.AchievementRecord) error {
	return writeJSON(ctx, r.store, r.achievementsKey, records)
}

// LoadStats reads the learning statistics
func (r *AchievementRepository) LoadStats(ctx context.Context) (models.LearningStats, error) {
	var stats models.LearningStats
	if err := readJSON(ctx, r.store, r.statsKey, &stats); err != nil {
		return models.LearningStats{}, err
	}
	return stats, nil
}

// SaveStats writes the learning statistics
func (r *AchievementRepository) SaveStats(ctx context.Context, stats models.LearningStats) error {
	return writeJSON(ctx, r.store, r.statsKey, stats)
}
