package progress

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/flashdeck/internal/apperr"
	"github.com/example/flashdeck/internal/cache"
	"github.com/example/flashdeck/internal/clock"
	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/internal/platform/logger"
	"github.com/example/flashdeck/internal/spaced_repetition"
	"github.com/example/flashdeck/pkg/models"
)

// Service derives user summaries, deck aggregates and achievements from review states
type Service struct {
	db    *sqlx.DB
	clock clock.Clock
	cache cache.SummaryCache
	log   *logger.Logger
}

// NewService creates a progress service. A nil cache disables caching.
func NewService(db *sqlx.DB, clk clock.Clock, summaries cache.SummaryCache, log *logger.Logger) *Service {
	if summaries == nil {
		summaries = cache.Nop{}
	}
	return &Service{
		db:    db,
		clock: clk,
		cache: summaries,
		log:   log.With("component", "progress"),
	}
}

// Summary returns the stored summary of a user, served from the cache when possible
func (s *Service) Summary(ctx context.Context, userID int64) (*models.UserProgressSummary, error) {
	cached, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.log.Warn("summary cache read failed", "user_id", userID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	summary, err := database.NewProgressRepository(s.db).GetByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("get progress summary", err)
	}
	if err := s.cache.Set(ctx, summary); err != nil {
		s.log.Warn("summary cache write failed", "user_id", userID, "error", err)
	}
	return summary, nil
}

// RecomputeUserProgress rebuilds the attempt aggregates of a user's summary.
// A user without any attempts keeps the summary as it is.
func (s *Service) RecomputeUserProgress(ctx context.Context, userID int64) (*models.UserProgressSummary, error) {
	var summary *models.UserProgressSummary
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		summary, err = recompute(ctx, tx, userID, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, apperr.Storage("recompute user progress", err)
	}
	s.invalidate(ctx, userID)
	return summary, nil
}

// UpdateStreak records a study event for the user at the current time
func (s *Service) UpdateStreak(ctx context.Context, userID int64) (*models.UserProgressSummary, error) {
	var summary *models.UserProgressSummary
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		summary, err = updateStreak(ctx, tx, userID, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, apperr.Storage("update streak", err)
	}
	s.invalidate(ctx, userID)
	return summary, nil
}

func recompute(ctx context.Context, q database.Queryer, userID int64, now time.Time) (*models.UserProgressSummary, error) {
	progressRepo := database.NewProgressRepository(q)
	summary, err := progressRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals, err := database.NewStatisticsRepository(q).UserTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	attempts := totals.Correct + totals.Incorrect
	if attempts == 0 {
		return summary, nil
	}
	summary.AccuracyRate = float64(totals.Correct) / float64(attempts) * 100
	summary.AverageResponseTime = totals.AverageResponseTime
	summary.TotalCards = attempts
	summary.MasteredCards = totals.Correct

	if err := progressRepo.Update(ctx, summary, now); err != nil {
		return nil, err
	}
	return summary, nil
}

func updateStreak(ctx context.Context, q database.Queryer, userID int64, now time.Time) (*models.UserProgressSummary, error) {
	repo := database.NewProgressRepository(q)
	summary, err := repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	UpdateStreak(summary, now)
	if err := repo.Update(ctx, summary, now); err != nil {
		return nil, err
	}
	return summary, nil
}

// Stats recomputes the user's summary, records today's study for the streak,
// unlocks any newly reached achievements and reports recent activity and the
// per-level distribution of the user's cards
func (s *Service) Stats(ctx context.Context, userID int64) (*models.ProgressStats, error) {
	now := s.clock.Now()
	stats := &models.ProgressStats{LevelDistribution: map[string]models.LevelBucket{}}

	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := recompute(ctx, tx, userID, now); err != nil {
			return err
		}
		summary, err := updateStreak(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		stats.Summary = summary

		stats.NewAchievements, err = checkAchievements(ctx, tx, summary, now)
		if err != nil {
			return err
		}

		statsRepo := database.NewStatisticsRepository(tx)
		windows := []struct {
			since time.Time
			dest  *int
		}{
			{startOfDay(now), &stats.RecentActivity.TodayReviews},
			{now.AddDate(0, 0, -7), &stats.RecentActivity.WeekReviews},
			{now.AddDate(0, 0, -30), &stats.RecentActivity.MonthReviews},
		}
		for _, w := range windows {
			if *w.dest, err = statsRepo.CountReviewedSince(ctx, userID, w.since); err != nil {
				return err
			}
		}

		rows, err := statsRepo.UserLevelAttempts(ctx, userID)
		if err != nil {
			return err
		}
		stats.LevelDistribution = levelDistribution(rows)
		return nil
	})
	if err != nil {
		return nil, apperr.Storage("compute progress stats", err)
	}
	s.invalidate(ctx, userID)

	if len(stats.NewAchievements) > 0 {
		s.log.Info("achievements unlocked", "user_id", userID, "count", len(stats.NewAchievements))
	}
	return stats, nil
}

func levelDistribution(rows []database.LevelAttempts) map[string]models.LevelBucket {
	out := map[string]models.LevelBucket{}
	for _, row := range rows {
		bucket := out[row.Level]
		bucket.Total++
		state := &models.CardReviewState{CorrectAttempts: row.CorrectAttempts, IncorrectAttempts: row.IncorrectAttempts}
		if spaced_repetition.IsLevelMastered(state) {
			bucket.Mastered++
		}
		out[row.Level] = bucket
	}
	return out
}

// RecomputeDeck refreshes and stores the aggregates of one deck
func (s *Service) RecomputeDeck(ctx context.Context, deckID int64) (*models.Deck, error) {
	now := s.clock.Now()
	deckRepo := database.NewDeckRepository(s.db)

	deck, err := deckRepo.GetByID(ctx, deckID)
	if err != nil {
		return nil, apperr.Storage("get deck", err)
	}
	total, err := deckRepo.CountCards(ctx, deckID)
	if err != nil {
		return nil, apperr.Storage("count deck cards", err)
	}
	counts, err := database.NewStatisticsRepository(s.db).DeckCounts(ctx, deckID, now)
	if err != nil {
		return nil, apperr.Storage("count deck states", err)
	}

	applyDeckCounts(deck, total, counts)
	if err := deckRepo.UpdateStats(ctx, deck, now); err != nil {
		return nil, apperr.Storage("update deck stats", err)
	}
	return deck, nil
}

func applyDeckCounts(deck *models.Deck, total int, counts *database.DeckCounts) {
	deck.TotalCards = total
	deck.MasteredCards = counts.Mastered
	deck.DueCards = counts.Due
	deck.CompletionRate = 0
	if total > 0 {
		deck.CompletionRate = float64(counts.Mastered) / float64(total)
	}
	deck.Difficulty = 1 - deck.CompletionRate
	deck.AverageMasteryTime = 0
	if len(counts.MasteryDays) > 0 {
		var sum float64
		for _, d := range counts.MasteryDays {
			sum += d
		}
		deck.AverageMasteryTime = sum / float64(len(counts.MasteryDays))
	}
}

// RecomputeAllDecks refreshes every deck and returns how many were updated.
// A failing deck is logged and skipped.
func (s *Service) RecomputeAllDecks(ctx context.Context) (int, error) {
	ids, err := database.NewDeckRepository(s.db).ListIDs(ctx)
	if err != nil {
		return 0, apperr.Storage("list decks", err)
	}
	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if _, err := s.RecomputeDeck(ctx, id); err != nil {
			s.log.Error("deck recompute failed", "deck_id", id, "error", err)
			continue
		}
		updated++
	}
	return updated, nil
}

func (s *Service) invalidate(ctx context.Context, userID int64) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.Warn("summary cache invalidation failed", "user_id", userID, "error", err)
	}
}
