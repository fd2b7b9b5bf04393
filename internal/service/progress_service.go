package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"wordcards/internal/models"
	"wordcards/internal/repository"
)

// FamilyCatalog is the read-only word-family lookup the services need
type FamilyCatalog interface {
	Family(id string) (models.WordFamily, bool)
	WordCount(id string) int
}

// ProgressService tracks per-family word completion and mastery
type ProgressService struct {
	mu       sync.Mutex
	repo     *repository.ProgressRepository
	catalog  FamilyCatalog
	log      logrus.FieldLogger
	clock    func() time.Time
	progress *models.UserProgress
}

// NewProgressService creates a progress service holding an empty snapshot until Load is called
func NewProgressService(repo *repository.ProgressRepository, catalog FamilyCatalog, logger logrus.FieldLogger) *ProgressService {
	return &ProgressService{
		repo:     repo,
		catalog:  catalog,
		log:      logger.WithField("component", "progress"),
		clock:    utcNow,
		progress: models.NewUserProgress(utcNow()),
	}
}

// Load reads the persisted snapshot. Missing or unreadable data yields a fresh
// snapshot. Completed words are limited to the catalog's words of each family
// and mastery levels are always recomputed from the catalog.
func (s *ProgressService) Load(ctx context.Context) models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()

	progress, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.WithError(err).Warn("Discarding unreadable progress, starting fresh")
		}
		progress = models.NewUserProgress(s.clock())
	}

	for id, fp := range progress.FamilyProgress {
		fp.CompletedWords = lo.Uniq(fp.CompletedWords)
		if family, ok := s.catalog.Family(id); ok {
			kept := lo.Filter(fp.CompletedWords, func(w string, _ int) bool { return family.HasWord(w) })
			if dropped := len(fp.CompletedWords) - len(kept); dropped > 0 {
				s.log.WithFields(logrus.Fields{"family": id, "dropped": dropped}).Warn("Ignoring completed words missing from the catalog")
			}
			fp.CompletedWords = kept
		}
		fp.MasteryLevel = models.ComputeMasteryLevel(len(fp.CompletedWords), s.catalog.WordCount(id))
	}

	s.progress = progress
	return progress.Clone()
}

// MarkWordCompleted records that word of family familyID was learned.
// Marking an already completed word changes nothing.
func (s *ProgressService) MarkWordCompleted(ctx context.Context, familyID, word string) (*models.CompletionResult, error) {
	family, ok := s.catalog.Family(familyID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFamilyNotFound, familyID)
	}
	if !family.HasWord(word) {
		return nil, fmt.Errorf("%w: %q in %s", ErrWordNotInFamily, word, familyID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.progress.FamilyProgress[familyID]; ok && current.HasCompleted(word) {
		return &models.CompletionResult{
			Progress:     current.Clone(),
			MasteryLevel: current.MasteryLevel,
		}, nil
	}

	now := s.clock()
	next := s.progress.Clone()
	fp, ok := next.FamilyProgress[familyID]
	if !ok {
		fp = &models.StudyProgress{FamilyID: familyID, CompletedWords: []string{}}
		next.FamilyProgress[familyID] = fp
	}
	fp.CompletedWords = append(fp.CompletedWords, word)
	fp.MasteryLevel = models.ComputeMasteryLevel(len(fp.CompletedWords), len(family.Words))
	fp.LastStudied = now
	next.TotalWordsLearned++
	next.LastActive = now

	if err := s.repo.Save(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	s.progress = &next

	familyCompleted := lo.EveryBy(family.Words, func(w models.Word) bool { return fp.HasCompleted(w.Word) })

	s.log.WithFields(logrus.Fields{
		"family":  familyID,
		"word":    word,
		"mastery": fp.MasteryLevel,
	}).Debug("Word completed")

	return &models.CompletionResult{
		Progress:        fp.Clone(),
		MasteryLevel:    fp.MasteryLevel,
		NewlyCompleted:  true,
		FamilyCompleted: familyCompleted,
	}, nil
}

// GetFamilyProgress returns the progress of a family; false when it was never studied
func (s *ProgressService) GetFamilyProgress(familyID string) (models.StudyProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp, ok := s.progress.FamilyProgress[familyID]
	if !ok {
		return models.StudyProgress{}, false
	}
	return fp.Clone(), true
}

// GetMasteryLevel returns the 0-5 mastery level of a family
func (s *ProgressService) GetMasteryLevel(familyID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fp, ok := s.progress.FamilyProgress[familyID]; ok {
		return fp.MasteryLevel
	}
	return 0
}

// GetCompletionFraction returns completed/total words of a family in [0,1]
func (s *ProgressService) GetCompletionFraction(familyID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp, ok := s.progress.FamilyProgress[familyID]
	if !ok {
		return 0
	}
	return models.CompletionFraction(len(fp.CompletedWords), s.catalog.WordCount(familyID))
}

// GetCompletionPercent returns the completion fraction as a percentage
func (s *ProgressService) GetCompletionPercent(familyID string) float64 {
	return s.GetCompletionFraction(familyID) * 100
}

func (s *ProgressService) IsWordCompleted(familyID, word string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp, ok := s.progress.FamilyProgress[familyID]
	return ok && fp.HasCompleted(word)
}

// Snapshot returns a deep copy of the current progress
func (s *ProgressService) Snapshot() models.UserProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress.Clone()
}
