package service

import (
	"errors"
	"time"
)

var (
	ErrFamilyNotFound     = errors.New("word family not found")
	ErrWordNotInFamily    = errors.New("word does not belong to family")
	ErrNegativeStudyTime  = errors.New("study time must not be negative")
	ErrNegativeStreak     = errors.New("streak must not be negative")
	ErrSessionNotFound    = errors.New("study session not found")
	ErrInvalidAchievement = errors.New("invalid achievement definition")
)

func utcNow() time.Time {
	return time.Now().UTC()
}
