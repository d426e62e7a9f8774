package catalog

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/example/flashdeck/internal/apperr"
	"github.com/example/flashdeck/internal/clock"
	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/internal/platform/logger"
	"github.com/example/flashdeck/pkg/models"
)

// Defaults applied to new users and decks
const (
	DefaultCardsPerDay      = 20
	DefaultNotificationHour = 9
	DefaultLanguage         = "en"
	DefaultCategory         = "vocabulary"
)

// Service creates and looks up users, decks and flashcards
type Service struct {
	db    *sqlx.DB
	clock clock.Clock
	log   *logger.Logger
}

func NewService(db *sqlx.DB, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{db: db, clock: clk, log: log.With("component", "catalog")}
}

// CreateUser validates and stores a user together with an empty progress summary
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)
	if user.Username == "" {
		return apperr.Invalid("username", "must not be empty")
	}
	if !strings.Contains(user.Email, "@") {
		return apperr.Invalid("email", "must be an email address")
	}
	if user.NotificationHour < 0 || user.NotificationHour > 23 {
		return apperr.Invalid("notification_hour", "must be between 0 and 23, got %d", user.NotificationHour)
	}
	if user.CardsPerDay < 0 {
		return apperr.Invalid("cards_per_day", "must not be negative")
	}
	if user.CardsPerDay == 0 {
		user.CardsPerDay = DefaultCardsPerDay
	}
	if user.Language == "" {
		user.Language = DefaultLanguage
	}

	if err := database.CreateUserWithProgress(ctx, s.db, user, s.clock.Now()); err != nil {
		return apperr.Storage("create user", err)
	}
	s.log.Info("user created", "user_id", user.ID)
	return nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := database.NewUserRepository(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get user", err)
	}
	return user, nil
}

// CreateDeck validates and stores a deck for an existing owner
func (s *Service) CreateDeck(ctx context.Context, deck *models.Deck) error {
	deck.Name = strings.TrimSpace(deck.Name)
	if deck.Name == "" {
		return apperr.Invalid("name", "must not be empty")
	}
	if deck.Level == "" {
		deck.Level = models.LevelA1
	}
	if models.LevelOrdinal(deck.Level) == 0 {
		return apperr.Invalid("level", "unknown level %q", deck.Level)
	}
	if deck.Language == "" {
		deck.Language = DefaultLanguage
	}
	if deck.Category == "" {
		deck.Category = DefaultCategory
	}
	if _, err := database.NewUserRepository(s.db).GetByID(ctx, deck.OwnerID); err != nil {
		return apperr.Storage("get owner", err)
	}

	if err := database.NewDeckRepository(s.db).Create(ctx, deck, s.clock.Now()); err != nil {
		return apperr.Storage("create deck", err)
	}
	return nil
}

func (s *Service) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	deck, err := database.NewDeckRepository(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("get deck", err)
	}
	return deck, nil
}

// AddCard stores a flashcard in an existing deck
func (s *Service) AddCard(ctx context.Context, card *models.Flashcard) error {
	card.Front = strings.TrimSpace(card.Front)
	card.Back = strings.TrimSpace(card.Back)
	if card.Front == "" {
		return apperr.Invalid("front", "must not be empty")
	}
	if card.Back == "" {
		return apperr.Invalid("back", "must not be empty")
	}

	repo := database.NewDeckRepository(s.db)
	if _, err := repo.GetByID(ctx, card.DeckID); err != nil {
		return apperr.Storage("get deck", err)
	}
	if err := repo.CreateCard(ctx, card, s.clock.Now()); err != nil {
		return apperr.Storage("create card", err)
	}
	return nil
}

// ListCards returns the cards of an existing deck
func (s *Service) ListCards(ctx context.Context, deckID int64) ([]models.Flashcard, error) {
	repo := database.NewDeckRepository(s.db)
	if _, err := repo.GetByID(ctx, deckID); err != nil {
		return nil, apperr.Storage("get deck", err)
	}
	cards, err := repo.ListCards(ctx, deckID)
	if err != nil {
		return nil, apperr.Storage("list cards", err)
	}
	return cards, nil
}

// ArchiveDeck hides a deck from new-card selection, or restores it
func (s *Service) ArchiveDeck(ctx context.Context, deckID int64, archived bool) error {
	if err := database.NewDeckRepository(s.db).SetArchived(ctx, deckID, archived, s.clock.Now()); err != nil {
		return apperr.Storage("archive deck", err)
	}
	return nil
}
