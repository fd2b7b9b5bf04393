package models

import (
	"slices"
	"time"
)

// MaxMasteryLevel is the highest mastery level (five stars)
const MaxMasteryLevel = 5

// StudyProgress represents a learner's progress through one word family
type StudyProgress struct {
	FamilyID       string    `json:"familyId"`
	CompletedWords []string  `json:"completedWords"`
	MasteryLevel   int       `json:"masteryLevel"` // 0-5 stars, derived
	LastStudied    time.Time `json:"lastStudied"`
}

// UserProgress is the persisted progress snapshot for the learner
type UserProgress struct {
	FamilyProgress    map[string]*StudyProgress `json:"familyProgress"`
	TotalWordsLearned int                       `json:"totalWordsLearned"`
	LastActive        time.Time                 `json:"lastActive"`
}

// CompletionResult describes the outcome of marking a word as completed
type CompletionResult struct {
	Progress        StudyProgress
	MasteryLevel    int
	NewlyCompleted  bool // false when the word was already completed
	FamilyCompleted bool // true only on the call that completed the family
}

// NewUserProgress returns an empty progress snapshot
func NewUserProgress(now time.Time) *UserProgress {
	return &UserProgress{
		FamilyProgress: make(map[string]*StudyProgress),
		LastActive:     now,
	}
}

// ComputeMasteryLevel returns floor(min(5, completed/total*5)), or 0 for an empty family
func ComputeMasteryLevel(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	level := completed * MaxMasteryLevel / total
	if level > MaxMasteryLevel {
		return MaxMasteryLevel
	}
	return level
}

// CompletionFraction returns completed/total clamped to [0,1], or 0 for an empty family
func CompletionFraction(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	fraction := float64(completed) / float64(total)
	if fraction > 1 {
		return 1
	}
	return fraction
}

// HasCompleted reports whether word is in the completed set
func (p *StudyProgress) HasCompleted(word string) bool {
	return slices.Contains(p.CompletedWords, word)
}

// Clone returns a deep copy of the study progress
func (p *StudyProgress) Clone() StudyProgress {
	c := *p
	c.CompletedWords = slices.Clone(p.CompletedWords)
	if c.CompletedWords == nil {
		c.CompletedWords = []string{}
	}
	return c
}

// Clone returns a deep copy of the user progress
func (p *UserProgress) Clone() UserProgress {
	c := UserProgress{
		FamilyProgress:    make(map[string]*StudyProgress, len(p.FamilyProgress)),
		TotalWordsLearned: p.TotalWordsLearned,
		LastActive:        p.LastActive,
	}
	for id, fp := range p.FamilyProgress {
		cp := fp.Clone()
		c.FamilyProgress[id] = &cp
	}
	return c
}
