package models

import "time"

// Defaults for a review state that has never been graded
const (
	DefaultEaseFactor   = 2.5
	MinEaseFactor       = 1.3
	DefaultIntervalDays = 1
)

// CardReviewState tracks one user's SM-2 scheduling state for one flashcard
type CardReviewState struct {
	ID                  int64      `json:"id" db:"id"`
	UserID              int64      `json:"user_id" db:"user_id"`
	CardID              int64      `json:"card_id" db:"card_id"`
	CorrectAttempts     int        `json:"correct_attempts" db:"correct_attempts"`
	IncorrectAttempts   int        `json:"incorrect_attempts" db:"incorrect_attempts"`
	AverageResponseTime float64    `json:"average_response_time" db:"average_response_time"` // Seconds
	LastReviewedAt      *time.Time `json:"last_reviewed_at" db:"last_reviewed_at"`
	NextReviewAt        *time.Time `json:"next_review_at" db:"next_review_at"`
	EaseFactor          float64    `json:"ease_factor" db:"ease_factor"`
	IntervalDays        int        `json:"interval_days" db:"interval_days"`
	Streak              int        `json:"streak" db:"streak"` // Consecutive correct reviews
	MasteredAt          *time.Time `json:"mastered_at" db:"mastered_at"`
	Version             int64      `json:"version" db:"version"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// NewCardReviewState returns an ungraded state for the pair
func NewCardReviewState(userID, cardID int64) *CardReviewState {
	return &CardReviewState{
		UserID:       userID,
		CardID:       cardID,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: DefaultIntervalDays,
	}
}

// IsDue reports whether the card has a next review at or before now
func (s *CardReviewState) IsDue(now time.Time) bool {
	return s.NextReviewAt != nil && !s.NextReviewAt.After(now)
}

// IsMastered reports whether the state has ever reached mastery
func (s *CardReviewState) IsMastered() bool {
	return s.MasteredAt != nil
}
