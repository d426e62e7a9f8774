package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/flashdeck/pkg/models"
)

// DeckRepository handles database operations for decks and their flashcards
type DeckRepository struct {
	db Queryer
}

// NewDeckRepository creates a new repository instance
func NewDeckRepository(db Queryer) *DeckRepository {
	return &DeckRepository{db: db}
}

// Create inserts a new deck
func (r *DeckRepository) Create(ctx context.Context, deck *models.Deck, now time.Time) error {
	id, err := insert(ctx, r.db, `
		INSERT INTO decks (
			owner_id, name, description, language, level, category,
			is_public, is_archived, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		deck.OwnerID,
		deck.Name,
		deck.Description,
		deck.Language,
		deck.Level,
		deck.Category,
		deck.IsPublic,
		deck.IsArchived,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create deck: %w", err)
	}
	deck.ID = id
	deck.CreatedAt = now
	deck.UpdatedAt = now
	return nil
}

// GetByID returns a deck by ID
func (r *DeckRepository) GetByID(ctx context.Context, id int64) (*models.Deck, error) {
	var deck models.Deck
	if err := get(ctx, r.db, &deck, "SELECT * FROM decks WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to get deck by ID: %w", notFound(err, "deck", id))
	}
	return &deck, nil
}

// ListIDs returns the ids of every deck, archived ones included
func (r *DeckRepository) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := sel(ctx, r.db, &ids, "SELECT id FROM decks ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	return ids, nil
}

// SetArchived archives or restores a deck
func (r *DeckRepository) SetArchived(ctx context.Context, id int64, archived bool, now time.Time) error {
	res, err := exec(ctx, r.db, "UPDATE decks SET is_archived = ?, updated_at = ? WHERE id = ?", archived, now, id)
	if err != nil {
		return fmt.Errorf("failed to archive deck: %w", err)
	}
	return requireRow(res, "deck", id)
}

// UpdateStats stores the recomputed aggregates of a deck
func (r *DeckRepository) UpdateStats(ctx context.Context, deck *models.Deck, now time.Time) error {
	res, err := exec(ctx, r.db, `
		UPDATE decks SET
			total_cards = ?,
			mastered_cards = ?,
			due_cards = ?,
			completion_rate = ?,
			difficulty = ?,
			average_mastery_time = ?,
			stats_updated_at = ?
		WHERE id = ?`,
		deck.TotalCards,
		deck.MasteredCards,
		deck.DueCards,
		deck.CompletionRate,
		deck.Difficulty,
		deck.AverageMasteryTime,
		now,
		deck.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update deck stats: %w", err)
	}
	if err := requireRow(res, "deck", deck.ID); err != nil {
		return err
	}
	deck.StatsUpdatedAt = &now
	return nil
}

// CreateCard inserts a flashcard into its deck
func (r *DeckRepository) CreateCard(ctx context.Context, card *models.Flashcard, now time.Time) error {
	id, err := insert(ctx, r.db, `
		INSERT INTO flashcards (deck_id, front, back, example, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		card.DeckID,
		card.Front,
		card.Back,
		card.Example,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create flashcard: %w", err)
	}
	card.ID = id
	card.CreatedAt = now
	card.UpdatedAt = now
	return nil
}

// GetCard returns a flashcard by ID
func (r *DeckRepository) GetCard(ctx context.Context, id int64) (*models.Flashcard, error) {
	var card models.Flashcard
	if err := get(ctx, r.db, &card, "SELECT * FROM flashcards WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to get flashcard by ID: %w", notFound(err, "flashcard", id))
	}
	return &card, nil
}

// ListCards returns the flashcards of a deck in id order
func (r *DeckRepository) ListCards(ctx context.Context, deckID int64) ([]models.Flashcard, error) {
	cards := []models.Flashcard{}
	if err := sel(ctx, r.db, &cards, "SELECT * FROM flashcards WHERE deck_id = ? ORDER BY id", deckID); err != nil {
		return nil, fmt.Errorf("failed to list flashcards: %w", err)
	}
	return cards, nil
}

// CountCards returns the number of flashcards in a deck
func (r *DeckRepository) CountCards(ctx context.Context, deckID int64) (int, error) {
	var n int
	if err := get(ctx, r.db, &n, "SELECT COUNT(*) FROM flashcards WHERE deck_id = ?", deckID); err != nil {
		return 0, fmt.Errorf("failed to count flashcards: %w", err)
	}
	return n, nil
}
