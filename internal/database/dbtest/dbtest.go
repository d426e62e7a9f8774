// Package dbtest opens throwaway in-memory stores and seeds fixtures for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/pkg/models"
)

// Open returns a fresh in-memory SQLite database with the schema applied
func Open(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.InitializeSchema(context.Background(), db))
	return db
}

// User creates a user with its progress summary
func User(t *testing.T, db *sqlx.DB, name string, now time.Time) *models.User {
	t.Helper()
	user := &models.User{
		Username:            name,
		Email:               fmt.Sprintf("%s@example.com", name),
		Language:            "en",
		NotificationEnabled: true,
		NotificationHour:    9,
		CardsPerDay:         20,
	}
	require.NoError(t, database.CreateUserWithProgress(context.Background(), db, user, now))
	return user
}

// Deck creates a public deck owned by ownerID
func Deck(t *testing.T, db *sqlx.DB, ownerID int64, name, level string, now time.Time) *models.Deck {
	t.Helper()
	deck := &models.Deck{
		OwnerID:  ownerID,
		Name:     name,
		Language: "en",
		Level:    level,
		Category: "vocabulary",
		IsPublic: true,
	}
	require.NoError(t, database.NewDeckRepository(db).Create(context.Background(), deck, now))
	return deck
}

// Cards adds n cards to a deck
func Cards(t *testing.T, db *sqlx.DB, deckID int64, n int, now time.Time) []models.Flashcard {
	t.Helper()
	repo := database.NewDeckRepository(db)
	cards := make([]models.Flashcard, 0, n)
	for i := 0; i < n; i++ {
		card := models.Flashcard{
			DeckID: deckID,
			Front:  fmt.Sprintf("front %d", i+1),
			Back:   fmt.Sprintf("back %d", i+1),
		}
		require.NoError(t, repo.CreateCard(context.Background(), &card, now))
		cards = append(cards, card)
	}
	return cards
}

// State stores a review state for the pair with the given fields already set
func State(t *testing.T, db *sqlx.DB, state *models.CardReviewState, now time.Time) *models.CardReviewState {
	t.Helper()
	ctx := context.Background()
	repo := database.NewReviewStateRepository(db)
	if state.EaseFactor == 0 {
		state.EaseFactor = models.DefaultEaseFactor
	}
	if state.IntervalDays == 0 {
		state.IntervalDays = models.DefaultIntervalDays
	}
	stored, _, err := repo.GetOrCreate(ctx, state.UserID, state.CardID, now)
	require.NoError(t, err)
	state.ID = stored.ID
	state.Version = stored.Version
	state.CreatedAt = stored.CreatedAt
	require.NoError(t, repo.Update(ctx, state, now))
	return state
}
