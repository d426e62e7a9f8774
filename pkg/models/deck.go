package models

import "time"

// Deck groups flashcards and carries aggregates recomputed from review states
type Deck struct {
	ID          int64  `json:"id" db:"id"`
	OwnerID     int64  `json:"owner_id" db:"owner_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Language    string `json:"language" db:"language"`
	Level       string `json:"level" db:"level"`
	Category    string `json:"category" db:"category"`
	IsPublic    bool   `json:"is_public" db:"is_public"`
	IsArchived  bool   `json:"is_archived" db:"is_archived"`

	TotalCards         int        `json:"total_cards" db:"total_cards"`
	MasteredCards      int        `json:"mastered_cards" db:"mastered_cards"` // Distinct mastered review states, all users
	DueCards           int        `json:"due_cards" db:"due_cards"`
	CompletionRate     float64    `json:"completion_rate" db:"completion_rate"` // 0.0 - 1.0
	Difficulty         float64    `json:"difficulty" db:"difficulty"`           // 1 - completion rate
	AverageMasteryTime float64    `json:"average_mastery_time" db:"average_mastery_time"` // Days
	StatsUpdatedAt     *time.Time `json:"stats_updated_at" db:"stats_updated_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CEFR levels used by decks and user summaries
const (
	LevelA1 = "A1"
	LevelA2 = "A2"
	LevelB1 = "B1"
	LevelB2 = "B2"
	LevelC1 = "C1"
	LevelC2 = "C2"
)

// LevelOrdinal maps a CEFR level to 1..6, or 0 when unknown
func LevelOrdinal(level string) int {
	switch level {
	case LevelA1:
		return 1
	case LevelA2:
		return 2
	case LevelB1:
		return 3
	case LevelB2:
		return 4
	case LevelC1:
		return 5
	case LevelC2:
		return 6
	}
	return 0
}
