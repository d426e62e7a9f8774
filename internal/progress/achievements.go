package progress

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/flashdeck/internal/apperr"
	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/pkg/models"
)

// achievementValue returns the summary value a definition of type t is compared against
func achievementValue(t models.AchievementType, summary *models.UserProgressSummary) (float64, bool) {
	switch t {
	case models.AchievementStreak:
		return float64(summary.CurrentStreak), true
	case models.AchievementCards:
		return float64(summary.TotalCards), true
	case models.AchievementAccuracy:
		return summary.AccuracyRate, true
	case models.AchievementLevel:
		return float64(models.LevelOrdinal(summary.CurrentLevel)), true
	case models.AchievementTime:
		return float64(summary.TimeSpent), true
	}
	return 0, false
}

// Reached reports whether the summary satisfies the definition
func Reached(def models.AchievementDefinition, summary *models.UserProgressSummary) bool {
	v, ok := achievementValue(def.Type, summary)
	return ok && v >= float64(def.RequirementValue)
}

// CheckAchievements unlocks every achievement the user's stored summary
// qualifies for and returns the ones unlocked by this call
func (s *Service) CheckAchievements(ctx context.Context, userID int64) ([]models.Achievement, error) {
	var unlocked []models.Achievement
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		summary, err := database.NewProgressRepository(tx).GetByUser(ctx, userID)
		if err != nil {
			return err
		}
		unlocked, err = checkAchievements(ctx, tx, summary, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, apperr.Storage("check achievements", err)
	}
	return unlocked, nil
}

// Achievements lists the user's unlocked achievements, newest first
func (s *Service) Achievements(ctx context.Context, userID int64) ([]models.Achievement, error) {
	if _, err := database.NewUserRepository(s.db).GetByID(ctx, userID); err != nil {
		return nil, apperr.Storage("get user", err)
	}
	list, err := database.NewAchievementRepository(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("list achievements", err)
	}
	return list, nil
}

func checkAchievements(ctx context.Context, q database.Queryer, summary *models.UserProgressSummary, now time.Time) ([]models.Achievement, error) {
	repo := database.NewAchievementRepository(q)
	defs, err := repo.ListDefinitions(ctx)
	if err != nil {
		return nil, err
	}

	unlocked := []models.Achievement{}
	for _, def := range defs {
		if !Reached(def, summary) {
			continue
		}
		a := models.Achievement{
			UserID:      summary.UserID,
			Type:        def.Type,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Points:      def.Points,
		}
		created, err := repo.Unlock(ctx, &a, now)
		if err != nil {
			return nil, err
		}
		if created {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked, nil
}
