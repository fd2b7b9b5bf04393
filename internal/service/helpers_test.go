package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"wordcards/internal/catalog"
	"wordcards/internal/config"
	"wordcards/internal/logging"
	"wordcards/internal/models"
	"wordcards/internal/repository"
	"wordcards/internal/storage"
)

var errWriteFailed = errors.New("disk full")

// recordingStore wraps a memory store, counting writes and optionally failing them
type recordingStore struct {
	*storage.MemoryStore
	mu       sync.Mutex
	sets     map[string]int
	failSets bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: storage.NewMemoryStore(), sets: make(map[string]int)}
}

func (s *recordingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSets {
		return errWriteFailed
	}
	s.sets[key]++
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *recordingStore) setCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[key]
}

func (s *recordingStore) failWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSets = fail
}

func quietLogger() logrus.FieldLogger {
	return logging.Discard()
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 4, 6, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testKeys = config.Default().Keys

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func newProgressService(t *testing.T, store storage.Store, clock *fakeClock) *ProgressService {
	t.Helper()
	svc := NewProgressService(repository.NewProgressRepository(store, testKeys.Progress), defaultCatalog(t), quietLogger())
	svc.clock = clock.Now
	svc.Load(context.Background())
	return svc
}

func newAchievementService(t *testing.T, store storage.Store, clock *fakeClock) *AchievementService {
	t.Helper()
	repo := repository.NewAchievementRepository(store, testKeys.Achievements, testKeys.Stats)
	svc, err := NewAchievementService(repo, DefaultAchievements, quietLogger())
	require.NoError(t, err)
	svc.clock = clock.Now
	svc.Load(context.Background())
	return svc
}

func newSessionService(t *testing.T, store storage.Store, achievements *AchievementService, clock *fakeClock) *SessionService {
	t.Helper()
	svc := NewSessionService(repository.NewSessionRepository(store, testKeys.Session), achievements, quietLogger())
	svc.clock = clock.Now
	svc.Load(context.Background())
	return svc
}

func ids(achievements []models.Achievement) []string {
	out := make([]string, len(achievements))
	for i, a := range achievements {
		out[i] = a.ID
	}
	return out
}
