// Package app wires storage, the word-family catalog and the learner services together.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"wordcards/internal/audio"
	"wordcards/internal/catalog"
	"wordcards/internal/config"
	"wordcards/internal/logging"
	"wordcards/internal/models"
	"wordcards/internal/repository"
	"wordcards/internal/service"
	"wordcards/internal/storage"
)

// ErrAudioDisabled is returned by Audio when audio.enabled is false
var ErrAudioDisabled = errors.New("audio generation is disabled")

// App is the learner-facing entry point of the engine
type App struct {
	Catalog      *catalog.Catalog
	Progress     *service.ProgressService
	Achievements *service.AchievementService
	Sessions     *service.SessionService
	Backup       *service.BackupService

	store storage.Store
	tts   *audio.TTSService
	log   logrus.FieldLogger
}

// LearnResult reports what recording a learned word changed
type LearnResult struct {
	Completion *models.CompletionResult
	Unlocked   []models.Achievement
}

// Open loads configuration from the environment, builds the configured logger and opens the app
func Open(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, logger)
}

// New opens the configured storage and loads all learner state
func New(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*App, error) {
	store, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a, err := NewWithStore(ctx, cfg, store, logger)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

// NewWithStore builds the app on an already open store, which it takes ownership of
func NewWithStore(ctx context.Context, cfg *config.Config, store storage.Store, logger logrus.FieldLogger) (*App, error) {
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	achievements, err := service.NewAchievementService(
		repository.NewAchievementRepository(store, cfg.Keys.Achievements, cfg.Keys.Stats),
		service.DefaultAchievements,
		logger,
	)
	if err != nil {
		return nil, err
	}

	a := &App{
		Catalog:      cat,
		Progress:     service.NewProgressService(repository.NewProgressRepository(store, cfg.Keys.Progress), cat, logger),
		Achievements: achievements,
		Sessions:     service.NewSessionService(repository.NewSessionRepository(store, cfg.Keys.Session), achievements, logger),
		Backup:       service.NewBackupService(store, cfg.Keys, logger),
		store:        store,
		log:          logger,
	}
	if cfg.Audio.Enabled {
		a.tts = audio.NewTTSService(cfg.Audio, nil, logger)
	}

	a.Reload(ctx)
	logger.WithFields(logrus.Fields{
		"families": len(cat.Families()),
		"words":    cat.TotalWords(),
	}).Info("Learner state loaded")
	return a, nil
}

func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.Path, err)
	}
	return cat, nil
}

// Reload rereads every snapshot from storage
func (a *App) Reload(ctx context.Context) {
	a.Progress.Load(ctx)
	a.Achievements.Load(ctx)
	a.Sessions.Load(ctx)
}

// RecordWordLearned marks a word as completed and feeds the first completion
// of a word, and of a whole family, into the learning statistics. Counters left
// behind by an earlier failed stats write are caught up on every call.
func (a *App) RecordWordLearned(ctx context.Context, familyID, word string) (*LearnResult, error) {
	completion, err := a.Progress.MarkWordCompleted(ctx, familyID, word)
	if err != nil {
		return nil, err
	}

	result := &LearnResult{Completion: completion, Unlocked: []models.Achievement{}}
	if completion.NewlyCompleted {
		unlocked, err := a.Achievements.IncrementWordsLearned(ctx)
		if err != nil {
			return nil, err
		}
		result.Unlocked = append(result.Unlocked, unlocked...)

		if completion.FamilyCompleted {
			unlocked, err := a.Achievements.IncrementFamiliesCompleted(ctx)
			if err != nil {
				return nil, err
			}
			result.Unlocked = append(result.Unlocked, unlocked...)
		}
	}

	unlocked, err := a.catchUpStats(ctx)
	if err != nil {
		return nil, err
	}
	result.Unlocked = append(result.Unlocked, unlocked...)

	return result, nil
}

// catchUpStats raises the word and family counters to what the progress snapshot records.
// Counters are never lowered.
func (a *App) catchUpStats(ctx context.Context) ([]models.Achievement, error) {
	snapshot := a.Progress.Snapshot()
	words := snapshot.TotalWordsLearned
	families := lo.CountBy(lo.Keys(snapshot.FamilyProgress), func(id string) bool {
		total := a.Catalog.WordCount(id)
		return total > 0 && len(snapshot.FamilyProgress[id].CompletedWords) >= total
	})

	stats := a.Achievements.Stats()
	var update models.StatsUpdate
	if stats.TotalWordsLearned < words {
		update.TotalWordsLearned = &words
	}
	if stats.TotalFamiliesCompleted < families {
		update.TotalFamiliesCompleted = &families
	}
	if update.TotalWordsLearned == nil && update.TotalFamiliesCompleted == nil {
		return nil, nil
	}

	a.log.WithFields(logrus.Fields{
		"words":    words,
		"families": families,
	}).Warn("Learning stats behind progress, catching up")
	return a.Achievements.UpdateStats(ctx, update)
}

// Audio returns the pronunciation audio service
func (a *App) Audio() (*audio.TTSService, error) {
	if a.tts == nil {
		return nil, ErrAudioDisabled
	}
	return a.tts, nil
}

// ExportTo writes a backup of the learner state
func (a *App) ExportTo(ctx context.Context, w io.Writer) error {
	return a.Backup.ExportToWriter(ctx, w)
}

// RestoreFrom imports a backup and reloads every service from it
func (a *App) RestoreFrom(ctx context.Context, r io.Reader) error {
	backup, err := a.Backup.ImportFromReader(r)
	if err != nil {
		return err
	}
	if err := a.Backup.Import(ctx, backup); err != nil {
		return err
	}
	a.Reload(ctx)
	return nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.store.Close()
}
