package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"wordcards/internal/models"
	"wordcards/internal/repository"
)

const dayLayout = "2006-01-02"

// MaxSessionLength caps the study time a single session can credit
const MaxSessionLength = 2 * time.Hour

// SessionService tracks study sessions and feeds session count, study time
// and the daily streak into the achievement engine
type SessionService struct {
	mu           sync.Mutex
	repo         *repository.SessionRepository
	achievements *AchievementService
	log          logrus.FieldLogger
	clock        func() time.Time
	sessions     models.SessionLog
}

func NewSessionService(repo *repository.SessionRepository, achievements *AchievementService, logger logrus.FieldLogger) *SessionService {
	return &SessionService{
		repo:         repo,
		achievements: achievements,
		log:          logger.WithField("component", "sessions"),
		clock:        utcNow,
	}
}

// Load reads the session log; unreadable data starts an empty log
func (s *SessionService) Load(ctx context.Context) models.SessionLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.WithError(err).Warn("Discarding unreadable session log")
		}
		sessions = models.SessionLog{}
	}
	s.sessions = sessions
	return sessions
}

// Start opens a new session, ending any active one first, and updates the daily streak.
// An active session left over from an earlier day was abandoned and credits no study time.
func (s *SessionService) Start(ctx context.Context) (*models.StudySession, []models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	today := now.Format(dayLayout)

	unlocked := []models.Achievement{}
	if s.sessions.Active != nil {
		credit := s.sessions.Active.StartedAt.UTC().Format(dayLayout) == today
		ended, err := s.endLocked(ctx, credit)
		if err != nil {
			return nil, nil, err
		}
		unlocked = append(unlocked, ended...)
	}

	session := &models.StudySession{ID: uuid.NewString(), StartedAt: now}

	current := s.achievements.Stats().CurrentStreak
	streak := nextStreak(s.sessions.LastStudyDay, today, current)

	next := s.sessions
	next.Active = session
	next.LastStudyDay = today
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, nil, fmt.Errorf("failed to save session log: %w", err)
	}
	s.sessions = next

	started, err := s.achievements.StartSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	unlocked = append(unlocked, started...)

	if streak != current {
		streaked, err := s.achievements.SetStreak(ctx, streak)
		if err != nil {
			return nil, nil, err
		}
		unlocked = append(unlocked, streaked...)
	}

	s.log.WithFields(logrus.Fields{"session": session.ID, "streak": streak}).Info("Study session started")

	result := *session
	return &result, unlocked, nil
}

// nextStreak returns the streak after studying on today given the last study day
func nextStreak(lastDay, today string, current int) int {
	if lastDay == "" {
		return 1
	}
	if lastDay == today {
		return max(current, 1)
	}
	last, err := time.Parse(dayLayout, lastDay)
	if err == nil && last.AddDate(0, 0, 1).Format(dayLayout) == today {
		return current + 1
	}
	return 1
}

// End closes the active session with the given id and adds its whole minutes
// of study time, at most MaxSessionLength
func (s *SessionService) End(ctx context.Context, id string) ([]models.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions.Active == nil || s.sessions.Active.ID != id {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.endLocked(ctx, true)
}

func (s *SessionService) endLocked(ctx context.Context, credit bool) ([]models.Achievement, error) {
	session := *s.sessions.Active
	now := s.clock()
	session.EndedAt = &now

	minutes := 0
	if credit {
		minutes = int(min(session.Duration(now), MaxSessionLength) / time.Minute)
	}

	next := s.sessions
	next.Active = nil
	if err := s.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save session log: %w", err)
	}
	s.sessions = next

	s.log.WithFields(logrus.Fields{"session": session.ID, "minutes": minutes}).Info("Study session ended")
	if !credit {
		s.log.WithFields(logrus.Fields{
			"session":    session.ID,
			"started_at": session.StartedAt,
		}).Warn("Abandoned session closed without study time")
	}

	if minutes == 0 {
		return []models.Achievement{}, nil
	}
	return s.achievements.AddStudyTime(ctx, minutes)
}

// Active returns the running session, if any
func (s *SessionService) Active() (*models.StudySession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions.Active == nil {
		return nil, false
	}
	session := *s.sessions.Active
	return &session, true
}
