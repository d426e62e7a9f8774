package review

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/flashdeck/internal/apperr"
	"github.com/example/flashdeck/internal/clock"
	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/internal/database/dbtest"
	"github.com/example/flashdeck/internal/platform/logger"
	"github.com/example/flashdeck/internal/spaced_repetition"
	"github.com/example/flashdeck/pkg/models"
)

var t0 = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	db    *sqlx.DB
	clock *clock.Fixed
	svc   *Service
	user  *models.User
	deck  *models.Deck
	cards []models.Flashcard
}

func newFixture(t *testing.T, cards int) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	clk := &clock.Fixed{T: t0}
	user := dbtest.User(t, db, "alice", t0)
	deck := dbtest.Deck(t, db, user.ID, "Basics", models.LevelA1, t0)
	return &fixture{
		db:    db,
		clock: clk,
		svc:   NewService(db, clk, spaced_repetition.NewSM2(), logger.Nop()),
		user:  user,
		deck:  deck,
		cards: dbtest.Cards(t, db, deck.ID, cards, t0),
	}
}

func TestGradeReviewCreatesAndPersistsState(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	card := f.cards[0]

	state, err := f.svc.GradeReview(ctx, f.user.ID, card.ID, 5, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 2.6, state.EaseFactor, 1e-9)
	assert.Equal(t, 6, state.IntervalDays)
	assert.Equal(t, 1, state.Streak)
	assert.Equal(t, 1, state.CorrectAttempts)
	assert.InDelta(t, 2.0, state.AverageResponseTime, 1e-9)
	assert.Equal(t, int64(1), state.Version)

	f.clock.Advance(time.Hour)
	state, err = f.svc.GradeReview(ctx, f.user.ID, card.ID, 2, 3.0)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Streak)
	assert.Equal(t, 1, state.IntervalDays)
	assert.Equal(t, 1, state.IncorrectAttempts)
	assert.InDelta(t, 2.5, state.AverageResponseTime, 1e-9)

	stored, err := database.NewReviewStateRepository(f.db).Get(ctx, f.user.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CorrectAttempts)
	assert.Equal(t, 1, stored.IncorrectAttempts)
	assert.Equal(t, int64(2), stored.Version)
	require.NotNil(t, stored.NextReviewAt)
	assert.WithinDuration(t, f.clock.Now().AddDate(0, 0, 1), *stored.NextReviewAt, time.Second)
}

func TestGradeReviewValidationTouchesNothing(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	for _, tc := range []struct {
		quality int
		rt      float64
		field   string
	}{
		{-1, 1, "quality"},
		{6, 1, "quality"},
		{3, -0.5, "response_time"},
	} {
		_, err := f.svc.GradeReview(ctx, f.user.ID, f.cards[0].ID, tc.quality, tc.rt)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, tc.field, ve.Field)
	}

	_, err := database.NewReviewStateRepository(f.db).Get(ctx, f.user.ID, f.cards[0].ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGradeReviewUnknownUserOrCard(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	_, err := f.svc.GradeReview(ctx, 999, f.cards[0].ID, 4, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.GradeReview(ctx, f.user.ID, 999, 4, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGradeReviewConcurrentCallsDoNotLoseUpdates(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.GradeReview(ctx, f.user.ID, f.cards[0].ID, 4, 1)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperr.ErrConflict)
	}

	stored, err := database.NewReviewStateRepository(f.db).Get(ctx, f.user.ID, f.cards[0].ID)
	require.NoError(t, err)
	assert.Equal(t, ok, stored.CorrectAttempts)
	assert.Equal(t, int64(ok), stored.Version)
}

func TestDueCardsFallsBackToNewCards(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()

	due, err := f.svc.DueCards(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, due, NewCardsLimit)
	for i, d := range due {
		assert.Nil(t, d.State)
		assert.Equal(t, f.cards[i].ID, d.Card.ID)
	}
}

func TestDueCardsEmptyWhenOnlyTrackedCardIsNotDue(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	_, err := f.svc.GradeReview(ctx, f.user.ID, f.cards[0].ID, 5, 1)
	require.NoError(t, err)

	due, err := f.svc.DueCards(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestDueCardsReturnsDueStatesBeforeNewCards(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.GradeReview(ctx, f.user.ID, f.cards[2].ID, 1, 1)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.svc.GradeReview(ctx, f.user.ID, f.cards[1].ID, 0, 1)
	require.NoError(t, err)

	f.clock.Advance(48 * time.Hour)
	due, err := f.svc.DueCards(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, f.cards[2].ID, due[0].Card.ID)
	assert.Equal(t, f.cards[1].ID, due[1].Card.ID)
	for _, d := range due {
		require.NotNil(t, d.State)
		assert.True(t, d.State.IsDue(f.clock.Now()))
	}

	n, err := f.svc.CountDue(ctx, f.user.ID, f.clock.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDueCardsUnknownUser(t *testing.T) {
	f := newFixture(t, 1)
	_, err := f.svc.DueCards(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProgressListsAllStates(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	empty, err := f.svc.Progress(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, c := range f.cards[:2] {
		_, err := f.svc.GradeReview(ctx, f.user.ID, c.ID, 4, 1)
		require.NoError(t, err)
	}
	states, err := f.svc.Progress(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, f.cards[0].ID, states[0].Card.ID)
	assert.Equal(t, f.cards[0].Front, states[0].Card.Front)
}
