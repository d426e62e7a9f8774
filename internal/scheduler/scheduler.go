package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jmoiron/sqlx"

	"github.com/example/flashdeck/internal/clock"
	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/internal/platform/logger"
	"github.com/example/flashdeck/pkg/models"
)

// DeckRecomputeAt is when the nightly deck statistics job runs (UTC)
const DeckRecomputeAt = "03:00"

// Notifier delivers review reminders to a user
type Notifier interface {
	SendReminders(ctx context.Context, user models.User, count int) error
}

// DeckRecomputer refreshes stored deck aggregates
type DeckRecomputer interface {
	RecomputeAllDecks(ctx context.Context) (int, error)
}

// Window limits reminders to hours in [StartHour, EndHour]
type Window struct {
	StartHour int
	EndHour   int
}

func (w Window) contains(hour int) bool {
	return hour >= w.StartHour && hour <= w.EndHour
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	db        *sqlx.DB
	notifier  Notifier
	decks     DeckRecomputer
	clock     clock.Clock
	window    Window
	log       *logger.Logger
}

// New creates a new scheduler instance
func New(db *sqlx.DB, notifier Notifier, decks DeckRecomputer, clk clock.Clock, window Window, log *logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		db:        db,
		notifier:  notifier,
		decks:     decks,
		clock:     clk,
		window:    window,
		log:       log.With("component", "scheduler"),
	}
}

// Start registers the jobs and runs them in the background until ctx is done
// or Stop is called
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.scheduler.Every(1).Hour().StartAt(nextHour(s.clock.Now())).Do(func() {
		if _, err := s.CheckAndSendReminders(ctx); err != nil {
			s.log.Error("reminder sweep failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	if _, err := s.scheduler.Every(1).Day().At(DeckRecomputeAt).Do(func() {
		n, err := s.decks.RecomputeAllDecks(ctx)
		if err != nil {
			s.log.Error("deck recompute failed", "error", err)
			return
		}
		s.log.Info("deck statistics recomputed", "decks", n)
	}); err != nil {
		return fmt.Errorf("failed to schedule deck recompute: %w", err)
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started", "jobs", len(s.scheduler.Jobs()))
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// CheckAndSendReminders notifies users whose reminder hour is the current
// hour and who have cards due. Each reminder is capped at the user's daily
// card count. It returns how many reminders were sent.
func (s *Scheduler) CheckAndSendReminders(ctx context.Context) (int, error) {
	now := s.clock.Now()
	hour := now.Hour()
	if !s.window.contains(hour) {
		s.log.Debug("outside notification hours, skipping reminders",
			"hour", hour, "start", s.window.StartHour, "end", s.window.EndHour)
		return 0, nil
	}

	users, err := database.NewUserRepository(s.db).GetUsersForNotification(ctx, hour)
	if err != nil {
		return 0, err
	}

	states := database.NewReviewStateRepository(s.db)
	sent := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		count, err := states.CountDue(ctx, user.ID, now)
		if err != nil {
			s.log.Error("failed to count due cards", "user_id", user.ID, "error", err)
			continue
		}
		if count == 0 {
			continue
		}
		if user.CardsPerDay > 0 && count > user.CardsPerDay {
			count = user.CardsPerDay
		}
		if err := s.notifier.SendReminders(ctx, user, count); err != nil {
			s.log.Error("failed to send reminder", "user_id", user.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// RunManualCheck sends a reminder to one user for all of their due cards,
// ignoring the notification window
func (s *Scheduler) RunManualCheck(ctx context.Context, userID int64) (int, error) {
	user, err := database.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	count, err := database.NewReviewStateRepository(s.db).CountDue(ctx, userID, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	return count, s.notifier.SendReminders(ctx, *user, count)
}

func nextHour(t time.Time) time.Time {
	return t.Truncate(time.Hour).Add(time.Hour)
}
