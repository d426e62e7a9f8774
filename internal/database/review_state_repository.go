package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/flashdeck/internal/apperr"
	"github.com/example/flashdeck/pkg/models"
)

// ReviewStateRepository handles database operations for per-(user, card) review states
type ReviewStateRepository struct {
	db Queryer
}

// NewReviewStateRepository creates a new repository instance
func NewReviewStateRepository(db Queryer) *ReviewStateRepository {
	return &ReviewStateRepository{db: db}
}

// reviewRow is a review state joined with its flashcard
type reviewRow struct {
	models.CardReviewState
	Card models.Flashcard `db:"card"`
}

const reviewRowColumns = `s.*,
	f.id AS "card.id",
	f.deck_id AS "card.deck_id",
	f.front AS "card.front",
	f.back AS "card.back",
	f.example AS "card.example",
	f.created_at AS "card.created_at",
	f.updated_at AS "card.updated_at"`

func (row reviewRow) dueCard() models.DueCard {
	state := row.CardReviewState
	return models.DueCard{Card: row.Card, State: &state}
}

// Get returns the state for a user and card
func (r *ReviewStateRepository) Get(ctx context.Context, userID, cardID int64) (*models.CardReviewState, error) {
	var state models.CardReviewState
	err := get(ctx, r.db, &state, "SELECT * FROM card_review_states WHERE user_id = ? AND card_id = ?", userID, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review state: %w", notFound(err, "review state for card", cardID))
	}
	return &state, nil
}

// GetOrCreate returns the state for a user and card, inserting a default one
// first if the pair has none. Run it in the same transaction as the Update
// that follows it.
func (r *ReviewStateRepository) GetOrCreate(ctx context.Context, userID, cardID int64, now time.Time) (*models.CardReviewState, bool, error) {
	res, err := exec(ctx, r.db, `
		INSERT INTO card_review_states (user_id, card_id, ease_factor, interval_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, card_id) DO NOTHING`,
		userID, cardID, models.DefaultEaseFactor, models.DefaultIntervalDays, now, now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create review state: %w", err)
	}
	created := false
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		created = true
	}

	state, err := r.Get(ctx, userID, cardID)
	if err != nil {
		return nil, false, err
	}
	return state, created, nil
}

// Update writes a graded state back. The row must still carry the version the
// state was read with; otherwise apperr.ErrConflict is returned and nothing is written.
func (r *ReviewStateRepository) Update(ctx context.Context, state *models.CardReviewState, now time.Time) error {
	res, err := exec(ctx, r.db, `
		UPDATE card_review_states SET
			correct_attempts = ?,
			incorrect_attempts = ?,
			average_response_time = ?,
			last_reviewed_at = ?,
			next_review_at = ?,
			ease_factor = ?,
			interval_days = ?,
			streak = ?,
			mastered_at = ?,
			version = version + 1,
			updated_at = ?
		WHERE id = ? AND version = ?`,
		state.CorrectAttempts,
		state.IncorrectAttempts,
		state.AverageResponseTime,
		state.LastReviewedAt,
		state.NextReviewAt,
		state.EaseFactor,
		state.IntervalDays,
		state.Streak,
		state.MasteredAt,
		now,
		state.ID,
		state.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update review state: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("review state %d at version %d: %w", state.ID, state.Version, apperr.ErrConflict)
	}
	state.Version++
	state.UpdatedAt = now
	return nil
}

// GetDue returns the user's states due at now, earliest first
func (r *ReviewStateRepository) GetDue(ctx context.Context, userID int64, now time.Time) ([]models.DueCard, error) {
	var rows []reviewRow
	err := sel(ctx, r.db, &rows, `
		SELECT `+reviewRowColumns+`
		FROM card_review_states s
		JOIN flashcards f ON f.id = s.card_id
		WHERE s.user_id = ? AND s.next_review_at IS NOT NULL AND s.next_review_at <= ?
		ORDER BY s.next_review_at ASC, s.card_id ASC`, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due cards: %w", err)
	}
	return toDueCards(rows), nil
}

// CountDue returns how many of the user's states are due at now
func (r *ReviewStateRepository) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	var n int
	err := get(ctx, r.db, &n, `
		SELECT COUNT(*) FROM card_review_states
		WHERE user_id = ? AND next_review_at IS NOT NULL AND next_review_at <= ?`, userID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to count due cards: %w", err)
	}
	return n, nil
}

// GetNewCards returns up to limit cards from decks the user can study (public
// or owned, not archived) that the user has no review state for, by card id
func (r *ReviewStateRepository) GetNewCards(ctx context.Context, userID int64, limit int) ([]models.Flashcard, error) {
	cards := []models.Flashcard{}
	err := sel(ctx, r.db, &cards, `
		SELECT f.* FROM flashcards f
		JOIN decks d ON d.id = f.deck_id
		WHERE (d.is_public = ? OR d.owner_id = ?)
		AND d.is_archived = ?
		AND NOT EXISTS (
			SELECT 1 FROM card_review_states s
			WHERE s.card_id = f.id AND s.user_id = ?
		)
		ORDER BY f.id ASC
		LIMIT ?`, true, userID, false, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get new cards: %w", err)
	}
	return cards, nil
}

// ListByUser returns every state of the user with its card, soonest review first
func (r *ReviewStateRepository) ListByUser(ctx context.Context, userID int64) ([]models.DueCard, error) {
	var rows []reviewRow
	err := sel(ctx, r.db, &rows, `
		SELECT `+reviewRowColumns+`
		FROM card_review_states s
		JOIN flashcards f ON f.id = s.card_id
		WHERE s.user_id = ?
		ORDER BY s.next_review_at ASC, s.card_id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list review states: %w", err)
	}
	return toDueCards(rows), nil
}

func toDueCards(rows []reviewRow) []models.DueCard {
	out := make([]models.DueCard, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.dueCard())
	}
	return out
}
