package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/flashdeck/pkg/models"
)

// ProgressRepository handles database operations for user progress summaries
type ProgressRepository struct {
	db Queryer
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db Queryer) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Create inserts a summary row for a new user
func (r *ProgressRepository) Create(ctx context.Context, summary *models.UserProgressSummary, now time.Time) error {
	id, err := insert(ctx, r.db, `
		INSERT INTO user_progress (user_id, current_level, cards_per_day, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		summary.UserID,
		summary.CurrentLevel,
		summary.CardsPerDay,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create user progress: %w", err)
	}
	summary.ID = id
	summary.CreatedAt = now
	summary.UpdatedAt = now
	return nil
}

// GetByUser returns the summary of a user
func (r *ProgressRepository) GetByUser(ctx context.Context, userID int64) (*models.UserProgressSummary, error) {
	var summary models.UserProgressSummary
	err := get(ctx, r.db, &summary, "SELECT * FROM user_progress WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", notFound(err, "progress for user", userID))
	}
	return &summary, nil
}

// Update stores every mutable field of a summary
func (r *ProgressRepository) Update(ctx context.Context, summary *models.UserProgressSummary, now time.Time) error {
	res, err := exec(ctx, r.db, `
		UPDATE user_progress SET
			current_level = ?,
			total_cards = ?,
			mastered_cards = ?,
			current_streak = ?,
			longest_streak = ?,
			accuracy_rate = ?,
			average_response_time = ?,
			cards_per_day = ?,
			time_spent = ?,
			last_study_date = ?,
			updated_at = ?
		WHERE user_id = ?`,
		summary.CurrentLevel,
		summary.TotalCards,
		summary.MasteredCards,
		summary.CurrentStreak,
		summary.LongestStreak,
		summary.AccuracyRate,
		summary.AverageResponseTime,
		summary.CardsPerDay,
		summary.TimeSpent,
		summary.LastStudyDate,
		now,
		summary.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user progress: %w", err)
	}
	if err := requireRow(res, "progress for user", summary.UserID); err != nil {
		return err
	}
	summary.UpdatedAt = now
	return nil
}
