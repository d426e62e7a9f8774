package database

import (
	"context"
	"fmt"
	"time"
)

// StatisticsRepository runs the aggregate queries behind user and deck statistics
type StatisticsRepository struct {
	db Queryer
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db Queryer) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// AttemptTotals sums the attempt counters over a user's review states
type AttemptTotals struct {
	States              int     `db:"states"`
	Correct             int     `db:"correct"`
	Incorrect           int     `db:"incorrect"`
	AverageResponseTime float64 `db:"average_response_time"`
}

// UserTotals returns the attempt totals of a user
func (r *StatisticsRepository) UserTotals(ctx context.Context, userID int64) (*AttemptTotals, error) {
	var totals AttemptTotals
	err := get(ctx, r.db, &totals, `
		SELECT
			COUNT(*) AS states,
			COALESCE(SUM(correct_attempts), 0) AS correct,
			COALESCE(SUM(incorrect_attempts), 0) AS incorrect,
			COALESCE(AVG(average_response_time), 0) AS average_response_time
		FROM card_review_states
		WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user totals: %w", err)
	}
	return &totals, nil
}

// CountReviewedSince returns how many of the user's states were last reviewed at or after since
func (r *StatisticsRepository) CountReviewedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var n int
	err := get(ctx, r.db, &n, `
		SELECT COUNT(*) FROM card_review_states
		WHERE user_id = ? AND last_reviewed_at IS NOT NULL AND last_reviewed_at >= ?`, userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent reviews: %w", err)
	}
	return n, nil
}

// LevelAttempts is one review state's counters tagged with its deck level
type LevelAttempts struct {
	Level             string `db:"level"`
	CorrectAttempts   int    `db:"correct_attempts"`
	IncorrectAttempts int    `db:"incorrect_attempts"`
}

// UserLevelAttempts returns the counters of every state of the user with its deck level
func (r *StatisticsRepository) UserLevelAttempts(ctx context.Context, userID int64) ([]LevelAttempts, error) {
	var rows []LevelAttempts
	err := sel(ctx, r.db, &rows, `
		SELECT d.level, s.correct_attempts, s.incorrect_attempts
		FROM card_review_states s
		JOIN flashcards f ON f.id = s.card_id
		JOIN decks d ON d.id = f.deck_id
		WHERE s.user_id = ?
		ORDER BY s.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get level attempts: %w", err)
	}
	return rows, nil
}

// DeckCounts holds the review-state counts of one deck across all users
type DeckCounts struct {
	Mastered int
	Due      int
	// Days from state creation to mastery, one entry per mastered state
	MasteryDays []float64
}

type masteryRow struct {
	CreatedAt  time.Time `db:"created_at"`
	MasteredAt time.Time `db:"mastered_at"`
}

// DeckCounts returns the mastered and due counts of a deck at now
func (r *StatisticsRepository) DeckCounts(ctx context.Context, deckID int64, now time.Time) (*DeckCounts, error) {
	var counts DeckCounts
	err := get(ctx, r.db, &counts.Due, `
		SELECT COUNT(*) FROM card_review_states s
		JOIN flashcards f ON f.id = s.card_id
		WHERE f.deck_id = ? AND s.next_review_at IS NOT NULL AND s.next_review_at <= ?`, deckID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count due deck cards: %w", err)
	}

	var mastered []masteryRow
	err = sel(ctx, r.db, &mastered, `
		SELECT s.created_at, s.mastered_at FROM card_review_states s
		JOIN flashcards f ON f.id = s.card_id
		WHERE f.deck_id = ? AND s.mastered_at IS NOT NULL
		ORDER BY s.id`, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to get mastered deck cards: %w", err)
	}

	counts.Mastered = len(mastered)
	for _, m := range mastered {
		counts.MasteryDays = append(counts.MasteryDays, m.MasteredAt.Sub(m.CreatedAt).Hours()/24)
	}
	return &counts, nil
}
