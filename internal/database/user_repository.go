package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/flashdeck/pkg/models"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db Queryer
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db Queryer) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and fills in its id and timestamps
func (r *UserRepository) Create(ctx context.Context, user *models.User, now time.Time) error {
	id, err := insert(ctx, r.db, `
		INSERT INTO users (
			username, email, language, telegram_chat_id,
			notification_enabled, notification_hour, cards_per_day,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.Language,
		user.TelegramChatID,
		user.NotificationEnabled,
		user.NotificationHour,
		user.CardsPerDay,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := get(ctx, r.db, &user, "SELECT * FROM users WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", notFound(err, "user", id))
	}
	return &user, nil
}

// GetUsersForNotification returns users with reminders enabled for hour who
// have somewhere to receive them
func (r *UserRepository) GetUsersForNotification(ctx context.Context, hour int) ([]models.User, error) {
	var users []models.User
	err := sel(ctx, r.db, &users, `
		SELECT * FROM users
		WHERE notification_enabled = ? AND notification_hour = ? AND telegram_chat_id IS NOT NULL
		ORDER BY id`, true, hour)
	if err != nil {
		return nil, fmt.Errorf("failed to get users for notification: %w", err)
	}
	return users, nil
}

// CreateUserWithProgress creates the account and its progress summary in one transaction
func CreateUserWithProgress(ctx context.Context, db *sqlx.DB, user *models.User, now time.Time) error {
	return WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := NewUserRepository(tx).Create(ctx, user, now); err != nil {
			return err
		}
		summary := &models.UserProgressSummary{
			UserID:       user.ID,
			CurrentLevel: models.LevelA1,
			CardsPerDay:  user.CardsPerDay,
		}
		return NewProgressRepository(tx).Create(ctx, summary, now)
	})
}
