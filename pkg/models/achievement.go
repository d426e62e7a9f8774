package models

import "time"

// AchievementType selects which summary value a definition is checked against
type AchievementType string

const (
	AchievementStreak   AchievementType = "streak"
	AchievementCards    AchievementType = "cards"
	AchievementAccuracy AchievementType = "accuracy"
	AchievementLevel    AchievementType = "level"
	AchievementTime     AchievementType = "time"
)

// AchievementDefinition describes an unlockable achievement
type AchievementDefinition struct {
	ID               int64           `json:"id" db:"id"`
	Type             AchievementType `json:"type" db:"type"`
	Name             string          `json:"name" db:"name"`
	Description      string          `json:"description" db:"description"`
	Icon             string          `json:"icon" db:"icon"`
	Points           int             `json:"points" db:"points"`
	RequirementValue int             `json:"requirement_value" db:"requirement_value"`
}

// Achievement is an unlocked definition for one user
type Achievement struct {
	ID          int64           `json:"id" db:"id"`
	UserID      int64           `json:"user_id" db:"user_id"`
	Type        AchievementType `json:"type" db:"type"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Icon        string          `json:"icon" db:"icon"`
	Points      int             `json:"points" db:"points"`
	UnlockedAt  time.Time       `json:"unlocked_at" db:"unlocked_at"`
}
