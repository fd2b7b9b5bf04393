package models

import "time"

// StudySession represents one learning session
type StudySession struct {
	ID        string     `json:"id"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// Duration returns the elapsed session time up to now, or up to EndedAt once ended
func (s *StudySession) Duration(now time.Time) time.Duration {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}

// SessionLog is the persisted session state used for streak tracking
type SessionLog struct {
	Active       *StudySession `json:"active,omitempty"`
	LastStudyDay string        `json:"lastStudyDay,omitempty"` // YYYY-MM-DD
}
