package review

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/flashdeck/internal/apperr"
	"github.com/example/flashdeck/internal/clock"
	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/internal/platform/logger"
	"github.com/example/flashdeck/internal/spaced_repetition"
	"github.com/example/flashdeck/pkg/models"
)

// NewCardsLimit caps how many unseen cards are offered when nothing is due
const NewCardsLimit = 10

// Service grades reviews and selects the cards a user should study next
type Service struct {
	db    *sqlx.DB
	clock clock.Clock
	sm2   *spaced_repetition.SM2
	log   *logger.Logger
}

// NewService creates a review service
func NewService(db *sqlx.DB, clk clock.Clock, sm2 *spaced_repetition.SM2, log *logger.Logger) *Service {
	return &Service{
		db:    db,
		clock: clk,
		sm2:   sm2,
		log:   log.With("component", "review"),
	}
}

// GradeReview records one answer for the user and card and returns the
// updated state. The state is created on first review.
func (s *Service) GradeReview(ctx context.Context, userID, cardID int64, quality int, responseTime float64) (*models.CardReviewState, error) {
	if err := s.sm2.Validate(quality, responseTime); err != nil {
		return nil, err
	}

	if _, err := database.NewUserRepository(s.db).GetByID(ctx, userID); err != nil {
		return nil, apperr.Storage("get user", err)
	}
	if _, err := database.NewDeckRepository(s.db).GetCard(ctx, cardID); err != nil {
		return nil, apperr.Storage("get card", err)
	}

	now := s.clock.Now()
	var (
		graded  *models.CardReviewState
		created bool
	)
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := database.NewReviewStateRepository(tx)
		state, isNew, err := repo.GetOrCreate(ctx, userID, cardID, now)
		if err != nil {
			return err
		}
		created = isNew

		graded, err = s.sm2.Process(state, quality, responseTime, now)
		if err != nil {
			return err
		}
		return repo.Update(ctx, graded, now)
	})
	if err != nil {
		s.log.Warn("grade review failed", "user_id", userID, "card_id", cardID, "error", err)
		return nil, apperr.Storage("grade review", err)
	}

	s.log.Debug("review graded",
		"user_id", userID,
		"card_id", cardID,
		"quality", quality,
		"new_state", created,
		"interval_days", graded.IntervalDays,
		"ease_factor", graded.EaseFactor,
	)
	return graded, nil
}

// DueCards returns the user's due cards, earliest first. When nothing is due
// it falls back to up to NewCardsLimit cards the user has never reviewed,
// which come back with a nil State.
func (s *Service) DueCards(ctx context.Context, userID int64) ([]models.DueCard, error) {
	if _, err := database.NewUserRepository(s.db).GetByID(ctx, userID); err != nil {
		return nil, apperr.Storage("get user", err)
	}

	repo := database.NewReviewStateRepository(s.db)
	due, err := repo.GetDue(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, apperr.Storage("get due cards", err)
	}
	if len(due) > 0 {
		return due, nil
	}

	cards, err := repo.GetNewCards(ctx, userID, NewCardsLimit)
	if err != nil {
		return nil, apperr.Storage("get new cards", err)
	}
	out := make([]models.DueCard, 0, len(cards))
	for _, card := range cards {
		out = append(out, models.DueCard{Card: card})
	}
	return out, nil
}

// Progress returns every review state of the user with its card
func (s *Service) Progress(ctx context.Context, userID int64) ([]models.DueCard, error) {
	if _, err := database.NewUserRepository(s.db).GetByID(ctx, userID); err != nil {
		return nil, apperr.Storage("get user", err)
	}
	states, err := database.NewReviewStateRepository(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list review states", err)
	}
	return states, nil
}

// CountDue returns the number of the user's states due at now
func (s *Service) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	n, err := database.NewReviewStateRepository(s.db).CountDue(ctx, userID, now)
	if err != nil {
		return 0, apperr.Storage("count due cards", err)
	}
	return n, nil
}
