package models

import "time"

// Rarity is the display tier of an achievement
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarities lists every rarity from most to least common
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// Valid reports whether r is a known rarity
func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// Achievement is a catalog entry merged with its unlock state
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Rarity      Rarity     `json:"rarity"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

// AchievementRecord is the persisted unlock state of one achievement
type AchievementRecord struct {
	ID         string     `json:"id"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// AchievementSummary aggregates the current unlock state
type AchievementSummary struct {
	UnlockedCount  int
	TotalCount     int
	CompletionRate float64 // percentage, 0-100
	CountsByRarity map[Rarity]int
}

// Record returns the persisted form of the achievement
func (a Achievement) Record() AchievementRecord {
	return AchievementRecord{ID: a.ID, Unlocked: a.Unlocked, UnlockedAt: a.UnlockedAt}
}
