package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"wordcards/internal/models"
	"wordcards/internal/repository"
)

// AchievementService evaluates the achievement catalog against learning statistics
type AchievementService struct {
	mu           sync.Mutex
	repo         *repository.AchievementRepository
	definitions  []AchievementDefinition
	achievements []models.Achievement // parallel to definitions
	stats        models.LearningStats
	log          logrus.FieldLogger
	clock        func() time.Time
}

// NewAchievementService validates the catalog and starts with everything locked and zero stats
func NewAchievementService(repo *repository.AchievementRepository, definitions []AchievementDefinition, logger logrus.FieldLogger) (*AchievementService, error) {
	seen := make(map[string]struct{}, len(definitions))
	for _, def := range definitions {
		if def.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidAchievement)
		}
		if _, ok := seen[def.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidAchievement, def.ID)
		}
		seen[def.ID] = struct{}{}
		if def.Predicate == nil {
			return nil, fmt.Errorf("%w: %s has no predicate", ErrInvalidAchievement, def.ID)
		}
		if !def.Rarity.Valid() {
			return nil, fmt.Errorf("%w: %s has rarity %q", ErrInvalidAchievement, def.ID, def.Rarity)
		}
	}

	s := &AchievementService{
		repo:        repo,
		definitions: slices.Clone(definitions),
		log:         logger.WithField("component", "achievements"),
		clock:       utcNow,
	}
	s.achievements = s.lockedCatalog()
	return s, nil
}

func (s *AchievementService) lockedCatalog() []models.Achievement {
	return lo.Map(s.definitions, func(d AchievementDefinition, _ int) models.Achievement { return d.locked() })
}

// Load merges persisted unlock records onto the catalog and reads the stats.
// Unreadable data falls back to all locked and zero stats.
func (s *AchievementService) Load(ctx context.Context) ([]models.Achievement, models.LearningStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	achievements := s.lockedCatalog()
	records, err := s.repo.LoadRecords(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.WithError(err).Warn("Discarding unreadable achievements, all locked")
	}
	if err == nil {
		byID := lo.KeyBy(records, func(r models.AchievementRecord) string { return r.ID })
		for i := range achievements {
			rec, ok := byID[achievements[i].ID]
			if !ok || !rec.Unlocked {
				continue
			}
			achievements[i].Unlocked = true
			achievements[i].UnlockedAt = rec.UnlockedAt
		}
		if dropped := len(records) - len(lo.Filter(records, func(r models.AchievementRecord, _ int) bool { return s.isKnown(r.ID) })); dropped > 0 {
			s.log.WithField("dropped", dropped).Info("Ignoring records of retired achievements")
		}
	}

	stats, err := s.repo.LoadStats(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.WithError(err).Warn("Discarding unreadable stats, starting from zero")
		}
		stats = models.LearningStats{}
	}

	s.achievements = achievements
	s.stats = stats
	return slices.Clone(achievements), stats
}

func (s *AchievementService) isKnown(id string) bool {
	return lo.ContainsBy(s.definitions, func(d AchievementDefinition) bool { return d.ID == id })
}

// UpdateStats overwrites the given fields, persists the stats and returns the
// achievements this update unlocked, in catalog order
func (s *AchievementService) UpdateStats(ctx context.Context, update models.StatsUpdate) ([]models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, update)
}

func (s *AchievementService) updateLocked(ctx context.Context, update models.StatsUpdate) ([]models.Achievement, error) {
	next := s.stats.Apply(update)
	if err := s.repo.SaveStats(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save stats: %w", err)
	}
	s.stats = next
	return s.evaluateLocked(ctx, next)
}

// IncrementWordsLearned adds one learned word
func (s *AchievementService) IncrementWordsLearned(ctx context.Context) ([]models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.stats.TotalWordsLearned + 1
	return s.updateLocked(ctx, models.StatsUpdate{TotalWordsLearned: &n})
}

// IncrementFamiliesCompleted adds one completed family
func (s *AchievementService) IncrementFamiliesCompleted(ctx context.Context) ([]models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.stats.TotalFamiliesCompleted + 1
	return s.updateLocked(ctx, models.StatsUpdate{TotalFamiliesCompleted: &n})
}

// SetStreak sets the current streak; the max streak never decreases
func (s *AchievementService) SetStreak(ctx context.Context, streak int) ([]models.Achievement, error) {
	if streak < 0 {
		return nil, ErrNegativeStreak
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	maxStreak := max(s.stats.MaxStreak, streak)
	return s.updateLocked(ctx, models.StatsUpdate{CurrentStreak: &streak, MaxStreak: &maxStreak})
}

// AddStudyTime adds minutes of study time
func (s *AchievementService) AddStudyTime(ctx context.Context, minutes int) ([]models.Achievement, error) {
	if minutes < 0 {
		return nil, ErrNegativeStudyTime
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.stats.TotalStudyTime + minutes
	return s.updateLocked(ctx, models.StatsUpdate{TotalStudyTime: &n})
}

// StartSession counts a new study session
func (s *AchievementService) StartSession(ctx context.Context) ([]models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.stats.TotalSessions + 1
	return s.updateLocked(ctx, models.StatsUpdate{TotalSessions: &n})
}

// Evaluate unlocks every locked achievement whose condition holds for stats
func (s *AchievementService) Evaluate(ctx context.Context, stats models.LearningStats) ([]models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluateLocked(ctx, stats)
}

func (s *AchievementService) evaluateLocked(ctx context.Context, stats models.LearningStats) ([]models.Achievement, error) {
	now := s.clock()
	next := slices.Clone(s.achievements)

	unlocked := []models.Achievement{}
	for i, def := range s.definitions {
		if next[i].Unlocked || !def.Predicate(stats) {
			continue
		}
		at := now
		next[i].Unlocked = true
		next[i].UnlockedAt = &at
		unlocked = append(unlocked, next[i])
	}
	if len(unlocked) == 0 {
		return unlocked, nil
	}

	records := lo.Map(next, func(a models.Achievement, _ int) models.AchievementRecord { return a.Record() })
	if err := s.repo.SaveRecords(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save achievements: %w", err)
	}
	s.achievements = next

	for _, a := range unlocked {
		s.log.WithFields(logrus.Fields{"achievement": a.ID, "rarity": a.Rarity}).Info("Achievement unlocked")
	}
	return unlocked, nil
}

// GetSummary counts unlocked achievements overall and per rarity
func (s *AchievementService) GetSummary() models.AchievementSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlocked := lo.Filter(s.achievements, func(a models.Achievement, _ int) bool { return a.Unlocked })
	summary := models.AchievementSummary{
		UnlockedCount:  len(unlocked),
		TotalCount:     len(s.achievements),
		CountsByRarity: lo.MapValues(
			lo.GroupBy(unlocked, func(a models.Achievement) models.Rarity { return a.Rarity }),
			func(group []models.Achievement, _ models.Rarity) int { return len(group) },
		),
	}
	if summary.TotalCount > 0 {
		summary.CompletionRate = float64(summary.UnlockedCount) / float64(summary.TotalCount) * 100
	}
	return summary
}

// Achievements returns the merged catalog view
func (s *AchievementService) Achievements() []models.Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.achievements)
}

// Stats returns the current learning statistics
func (s *AchievementService) Stats() models.LearningStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
