package models

// LearningStats holds the cumulative statistics achievements are evaluated against
type LearningStats struct {
	TotalWordsLearned      int `json:"totalWordsLearned"`
	TotalFamiliesCompleted int `json:"totalFamiliesCompleted"`
	CurrentStreak          int `json:"currentStreak"`
	MaxStreak              int `json:"maxStreak"`
	TotalStudyTime         int `json:"totalStudyTime"` // minutes
	PerfectDays            int `json:"perfectDays"`    // reserved, never mutated
	TotalSessions          int `json:"totalSessions"`
}

// StatsUpdate is a partial update of LearningStats; nil fields are left unchanged
type StatsUpdate struct {
	TotalWordsLearned      *int
	TotalFamiliesCompleted *int
	CurrentStreak          *int
	MaxStreak              *int
	TotalStudyTime         *int
	PerfectDays            *int
	TotalSessions          *int
}

// Apply overwrites the fields set in u and returns the merged stats
func (s LearningStats) Apply(u StatsUpdate) LearningStats {
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.TotalWordsLearned, u.TotalWordsLearned)
	set(&s.TotalFamiliesCompleted, u.TotalFamiliesCompleted)
	set(&s.CurrentStreak, u.CurrentStreak)
	set(&s.MaxStreak, u.MaxStreak)
	set(&s.TotalStudyTime, u.TotalStudyTime)
	set(&s.PerfectDays, u.PerfectDays)
	set(&s.TotalSessions, u.TotalSessions)
	return s
}
