package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/flashdeck/pkg/models"
)

// DefaultAchievementDefinitions are seeded by the migrate command
var DefaultAchievementDefinitions = []models.AchievementDefinition{
	{Type: models.AchievementStreak, Name: "Warm Up", Description: "Study 3 days in a row", Icon: "flame", Points: 10, RequirementValue: 3},
	{Type: models.AchievementStreak, Name: "Habit Formed", Description: "Study 30 days in a row", Icon: "flame", Points: 100, RequirementValue: 30},
	{Type: models.AchievementCards, Name: "First Steps", Description: "Answer 10 cards", Icon: "cards", Points: 10, RequirementValue: 10},
	{Type: models.AchievementCards, Name: "Card Shark", Description: "Answer 500 cards", Icon: "cards", Points: 100, RequirementValue: 500},
	{Type: models.AchievementAccuracy, Name: "Sharpshooter", Description: "Reach 90% accuracy", Icon: "target", Points: 50, RequirementValue: 90},
	{Type: models.AchievementLevel, Name: "Intermediate", Description: "Reach level B1", Icon: "star", Points: 50, RequirementValue: 3},
	{Type: models.AchievementTime, Name: "Dedicated", Description: "Study for 600 minutes", Icon: "clock", Points: 50, RequirementValue: 600},
}

// AchievementRepository handles database operations for achievements
type AchievementRepository struct {
	db Queryer
}

// NewAchievementRepository creates a new repository instance
func NewAchievementRepository(db Queryer) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// SeedDefinitions inserts definitions that don't exist yet, keyed by type and name
func (r *AchievementRepository) SeedDefinitions(ctx context.Context, defs []models.AchievementDefinition) error {
	for _, d := range defs {
		_, err := exec(ctx, r.db, `
			INSERT INTO achievement_definitions (type, name, description, icon, points, requirement_value)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (type, name) DO NOTHING`,
			d.Type, d.Name, d.Description, d.Icon, d.Points, d.RequirementValue,
		)
		if err != nil {
			return fmt.Errorf("failed to seed achievement %q: %w", d.Name, err)
		}
	}
	return nil
}

// ListDefinitions returns all definitions ordered by type and requirement
func (r *AchievementRepository) ListDefinitions(ctx context.Context) ([]models.AchievementDefinition, error) {
	defs := []models.AchievementDefinition{}
	err := sel(ctx, r.db, &defs, "SELECT * FROM achievement_definitions ORDER BY type, requirement_value, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement definitions: %w", err)
	}
	return defs, nil
}

// Unlock records the achievement for the user unless it is already unlocked.
// It reports whether a new row was created.
func (r *AchievementRepository) Unlock(ctx context.Context, a *models.Achievement, now time.Time) (bool, error) {
	res, err := exec(ctx, r.db, `
		INSERT INTO achievements (user_id, type, name, description, icon, points, unlocked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, type, name) DO NOTHING`,
		a.UserID, a.Type, a.Name, a.Description, a.Icon, a.Points, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		a.UnlockedAt = now
	}
	return n > 0, nil
}

// ListByUser returns the user's achievements, newest first
func (r *AchievementRepository) ListByUser(ctx context.Context, userID int64) ([]models.Achievement, error) {
	achievements := []models.Achievement{}
	err := sel(ctx, r.db, &achievements, "SELECT * FROM achievements WHERE user_id = ? ORDER BY unlocked_at DESC, id DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}
