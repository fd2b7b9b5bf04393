package service

import "wordcards/internal/models"

// AchievementDefinition is a static catalog entry and its unlock condition
type AchievementDefinition struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Rarity      models.Rarity
	Predicate   func(stats models.LearningStats) bool
}

func (d AchievementDefinition) locked() models.Achievement {
	return models.Achievement{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Icon:        d.Icon,
		Rarity:      d.Rarity,
	}
}

// DefaultAchievements is the built-in achievement catalog, in display order
var DefaultAchievements = []AchievementDefinition{
	{
		ID:          "first_word",
		Title:       "First Word",
		Description: "Learn your first word",
		Icon:        "🌟",
		Rarity:      models.RarityCommon,
		Predicate:   func(s models.LearningStats) bool { return s.TotalWordsLearned >= 1 },
	},
	{
		ID:          "word_collector",
		Title:       "Word Collector",
		Description: "Learn 10 words",
		Icon:        "📚",
		Rarity:      models.RarityCommon,
		Predicate:   func(s models.LearningStats) bool { return s.TotalWordsLearned >= 10 },
	},
	{
		ID:          "family_master",
		Title:       "Family Master",
		Description: "Complete a whole word family",
		Icon:        "👑",
		Rarity:      models.RarityRare,
		Predicate:   func(s models.LearningStats) bool { return s.TotalFamiliesCompleted >= 1 },
	},
	{
		ID:          "streak_starter",
		Title:       "Streak Starter",
		Description: "Study 3 days in a row",
		Icon:        "🔥",
		Rarity:      models.RarityRare,
		Predicate:   func(s models.LearningStats) bool { return s.CurrentStreak >= 3 },
	},
	{
		ID:          "word_master",
		Title:       "Word Master",
		Description: "Learn 25 words",
		Icon:        "🎓",
		Rarity:      models.RarityEpic,
		Predicate:   func(s models.LearningStats) bool { return s.TotalWordsLearned >= 25 },
	},
	{
		ID:          "perfect_week",
		Title:       "Perfect Week",
		Description: "Study 7 days in a row",
		Icon:        "💎",
		Rarity:      models.RarityEpic,
		Predicate:   func(s models.LearningStats) bool { return s.CurrentStreak >= 7 },
	},
	{
		ID:          "vocabulary_legend",
		Title:       "Vocabulary Legend",
		Description: "Learn 100 words",
		Icon:        "🏆",
		Rarity:      models.RarityLegendary,
		Predicate:   func(s models.LearningStats) bool { return s.TotalWordsLearned >= 100 },
	},
}
