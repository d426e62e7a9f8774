package progress

import (
	"context"
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
	"github.com/example/flashdeck/pkg/models"
)

var t0 = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

type memoryCache struct {
	entries     map[int64]models.UserProgressSummary
	invalidated []int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[int64]models.UserProgressSummary{}}
}

func (c *memoryCache) Get(_ context.Context, userID int64) (*models.UserProgressSummary, error) {
	s, ok := c.entries[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *memoryCache) Set(_ context.Context, s *models.UserProgressSummary) error {
	c.entries[s.UserID] = *s
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userID int64) error {
	delete(c.entries, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

type fixture struct {
	db    *sqlx.DB
	clock *clock.Fixed
	cache *memoryCache
	svc   *Service
	user  *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	clk := &clock.Fixed{T: t0}
	c := newMemoryCache()
	return &fixture{
		db:    db,
		clock: clk,
		cache: c,
		svc:   NewService(db, clk, c, logger.Nop()),
		user:  dbtest.User(t, db, "alice", t0),
	}
}

func TestRecomputeWithoutAttemptsKeepsSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	repo := database.NewProgressRepository(f.db)
	summary, err := repo.GetByUser(ctx, f.user.ID)
	require.NoError(t, err)
	summary.AccuracyRate = 87.5
	summary.TotalCards = 8
	require.NoError(t, repo.Update(ctx, summary, t0))

	got, err := f.svc.RecomputeUserProgress(ctx, f.user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 87.5, got.AccuracyRate, 1e-9)
	assert.Equal(t, 8, got.TotalCards)
}

func TestRecomputeUserProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deck := dbtest.Deck(t, f.db, f.user.ID, "Basics", models.LevelA1, t0)
	cards := dbtest.Cards(t, f.db, deck.ID, 2, t0)
	dbtest.State(t, f.db, &models.CardReviewState{UserID: f.user.ID, CardID: cards[0].ID, CorrectAttempts: 3, IncorrectAttempts: 1, AverageResponseTime: 3}, t0)
	dbtest.State(t, f.db, &models.CardReviewState{UserID: f.user.ID, CardID: cards[1].ID, CorrectAttempts: 3, IncorrectAttempts: 1, AverageResponseTime: 5}, t0)

	f.cache.entries[f.user.ID] = models.UserProgressSummary{UserID: f.user.ID}

	got, err := f.svc.RecomputeUserProgress(ctx, f.user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, got.AccuracyRate, 1e-9)
	assert.InDelta(t, 4.0, got.AverageResponseTime, 1e-9)
	assert.Equal(t, 8, got.TotalCards)
	assert.Equal(t, 6, got.MasteredCards)

	assert.NotContains(t, f.cache.entries, f.user.ID)
	assert.Contains(t, f.cache.invalidated, f.user.ID)

	stored, err := f.svc.Summary(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.TotalCards)
	assert.Contains(t, f.cache.entries, f.user.ID)
}

func TestRecomputeUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RecomputeUserProgress(context.Background(), 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSummaryServedFromCache(t *testing.T) {
	f := newFixture(t)
	f.cache.entries[f.user.ID] = models.UserProgressSummary{UserID: f.user.ID, TotalCards: 99}

	got, err := f.svc.Summary(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 99, got.TotalCards)
}

func TestServiceUpdateStreakAcrossDays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.svc.UpdateStreak(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, s.CurrentStreak)

	f.clock.Advance(24 * time.Hour)
	s, err = f.svc.UpdateStreak(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)

	f.clock.Advance(72 * time.Hour)
	s, err = f.svc.UpdateStreak(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
	require.NotNil(t, s.LastStudyDate)
	assert.WithinDuration(t, f.clock.Now(), *s.LastStudyDate, time.Second)
}

func TestRecomputeDeck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	bob := dbtest.User(t, f.db, "bob", t0)
	deck := dbtest.Deck(t, f.db, f.user.ID, "Basics", models.LevelA1, t0)
	cards := dbtest.Cards(t, f.db, deck.ID, 4, t0)

	created := t0.AddDate(0, 0, -10)
	m1 := t0.AddDate(0, 0, -6)
	m2 := t0.AddDate(0, 0, -2)
	past := t0.Add(-time.Hour)
	future := t0.Add(time.Hour)
	dbtest.State(t, f.db, &models.CardReviewState{UserID: f.user.ID, CardID: cards[0].ID, MasteredAt: &m1, NextReviewAt: &future}, created)
	dbtest.State(t, f.db, &models.CardReviewState{UserID: bob.ID, CardID: cards[1].ID, MasteredAt: &m2, NextReviewAt: &past}, created)
	dbtest.State(t, f.db, &models.CardReviewState{UserID: f.user.ID, CardID: cards[2].ID, NextReviewAt: &past}, created)

	got, err := f.svc.RecomputeDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalCards)
	assert.Equal(t, 2, got.MasteredCards)
	assert.Equal(t, 2, got.DueCards)
	assert.InDelta(t, 0.5, got.CompletionRate, 1e-9)
	assert.InDelta(t, 0.5, got.Difficulty, 1e-9)
	assert.InDelta(t, 6.0, got.AverageMasteryTime, 1e-6)

	stored, err := database.NewDeckRepository(f.db).GetByID(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.MasteredCards)
	require.NotNil(t, stored.StatsUpdatedAt)
}

func TestRecomputeEmptyDeck(t *testing.T) {
	f := newFixture(t)
	deck := dbtest.Deck(t, f.db, f.user.ID, "Empty", models.LevelA1, t0)

	got, err := f.svc.RecomputeDeck(context.Background(), deck.ID)
	require.NoError(t, err)
	assert.Zero(t, got.TotalCards)
	assert.Zero(t, got.CompletionRate)
	assert.InDelta(t, 1.0, got.Difficulty, 1e-9)
	assert.Zero(t, got.AverageMasteryTime)
}

func TestRecomputeAllDecks(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"a", "b", "c"} {
		dbtest.Deck(t, f.db, f.user.ID, name, models.LevelA1, t0)
	}
	n, err := f.svc.RecomputeAllDecks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, database.NewAchievementRepository(f.db).SeedDefinitions(ctx, database.DefaultAchievementDefinitions))

	a1 := dbtest.Deck(t, f.db, f.user.ID, "A1", models.LevelA1, t0)
	b2 := dbtest.Deck(t, f.db, f.user.ID, "B2", models.LevelB2, t0)
	a1Cards := dbtest.Cards(t, f.db, a1.ID, 2, t0)
	b2Cards := dbtest.Cards(t, f.db, b2.ID, 1, t0)

	today := t0.Add(-time.Hour)
	lastWeek := t0.AddDate(0, 0, -5)
	dbtest.State(t, f.db, &models.CardReviewState{UserID: f.user.ID, CardID: a1Cards[0].ID, CorrectAttempts: 8, LastReviewedAt: &today}, t0)
	dbtest.State(t, f.db, &models.CardReviewState{UserID: f.user.ID, CardID: a1Cards[1].ID, CorrectAttempts: 1, IncorrectAttempts: 1, LastReviewedAt: &lastWeek}, t0)
	dbtest.State(t, f.db, &models.CardReviewState{UserID: f.user.ID, CardID: b2Cards[0].ID, CorrectAttempts: 2, IncorrectAttempts: 1}, t0)

	stats, err := f.svc.Stats(ctx, f.user.ID)
	require.NoError(t, err)

	require.NotNil(t, stats.Summary)
	assert.Equal(t, 13, stats.Summary.TotalCards)
	assert.Equal(t, 11, stats.Summary.MasteredCards)
	require.NotNil(t, stats.Summary.LastStudyDate)

	assert.Equal(t, 1, stats.RecentActivity.TodayReviews)
	assert.Equal(t, 2, stats.RecentActivity.WeekReviews)
	assert.Equal(t, 2, stats.RecentActivity.MonthReviews)

	assert.Equal(t, models.LevelBucket{Total: 2, Mastered: 1}, stats.LevelDistribution[models.LevelA1])
	assert.Equal(t, models.LevelBucket{Total: 1, Mastered: 1}, stats.LevelDistribution[models.LevelB2])

	names := []string{}
	for _, a := range stats.NewAchievements {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"First Steps"}, names)

	again, err := f.svc.Stats(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, again.NewAchievements)

	list, err := f.svc.Achievements(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReached(t *testing.T) {
	summary := &models.UserProgressSummary{
		CurrentStreak: 3,
		TotalCards:    10,
		AccuracyRate:  89.9,
		CurrentLevel:  models.LevelB1,
		TimeSpent:     600,
	}
	tests := []struct {
		def  models.AchievementDefinition
		want bool
	}{
		{models.AchievementDefinition{Type: models.AchievementStreak, RequirementValue: 3}, true},
		{models.AchievementDefinition{Type: models.AchievementStreak, RequirementValue: 4}, false},
		{models.AchievementDefinition{Type: models.AchievementCards, RequirementValue: 10}, true},
		{models.AchievementDefinition{Type: models.AchievementAccuracy, RequirementValue: 90}, false},
		{models.AchievementDefinition{Type: models.AchievementLevel, RequirementValue: 3}, true},
		{models.AchievementDefinition{Type: models.AchievementLevel, RequirementValue: 4}, false},
		{models.AchievementDefinition{Type: models.AchievementTime, RequirementValue: 600}, true},
		{models.AchievementDefinition{Type: "unknown", RequirementValue: 0}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Reached(tt.def, summary), "%s >= %d", tt.def.Type, tt.def.RequirementValue)
	}
}

func TestCheckAchievementsUsesStoredSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, database.NewAchievementRepository(f.db).SeedDefinitions(ctx, database.DefaultAchievementDefinitions))

	repo := database.NewProgressRepository(f.db)
	summary, err := repo.GetByUser(ctx, f.user.ID)
	require.NoError(t, err)
	summary.CurrentStreak = 3
	summary.CurrentLevel = models.LevelC1
	require.NoError(t, repo.Update(ctx, summary, t0))

	unlocked, err := f.svc.CheckAchievements(ctx, f.user.ID)
	require.NoError(t, err)
	names := []string{}
	for _, a := range unlocked {
		names = append(names, a.Name)
	}
	assert.ElementsMatch(t, []string{"Warm Up", "Intermediate"}, names)
}
