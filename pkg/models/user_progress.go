package models

import "time"

// UserProgressSummary holds per-user aggregates derived from review states.
// TotalCards and MasteredCards hold attempt totals (all attempts, correct
// attempts), not distinct card counts like the Deck fields of the same name.
type UserProgressSummary struct {
	ID                  int64      `json:"id" db:"id"`
	UserID              int64      `json:"user_id" db:"user_id"`
	CurrentLevel        string     `json:"current_level" db:"current_level"`
	TotalCards          int        `json:"total_cards" db:"total_cards"`
	MasteredCards       int        `json:"mastered_cards" db:"mastered_cards"`
	CurrentStreak       int        `json:"current_streak" db:"current_streak"`
	LongestStreak       int        `json:"longest_streak" db:"longest_streak"`
	AccuracyRate        float64    `json:"accuracy_rate" db:"accuracy_rate"` // Percent
	AverageResponseTime float64    `json:"average_response_time" db:"average_response_time"`
	CardsPerDay         int        `json:"cards_per_day" db:"cards_per_day"`
	TimeSpent           int        `json:"time_spent" db:"time_spent"` // Minutes
	LastStudyDate       *time.Time `json:"last_study_date" db:"last_study_date"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}
