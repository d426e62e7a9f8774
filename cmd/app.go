package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/example/flashdeck/internal/cache"
	"github.com/example/flashdeck/internal/clock"
	"github.com/example/flashdeck/internal/config"
	"github.com/example/flashdeck/internal/database"
	"github.com/example/flashdeck/internal/notify"
	"github.com/example/flashdeck/internal/platform/logger"
	"github.com/example/flashdeck/internal/progress"
	"github.com/example/flashdeck/internal/scheduler"
)

// app holds the dependencies shared by every command
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *sqlx.DB
	clock clock.Clock
}

// bootstrap loads configuration, builds the logger and opens the database
// with its schema in place
func bootstrap(cmd *cobra.Command) (*app, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}

	driver, dsn, err := cfg.Driver()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := database.InitializeSchema(cmd.Context(), db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("database ready", "driver", driver)

	return &app{cfg: cfg, log: log, db: db, clock: clock.System{}}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close database", "error", err)
	}
	a.log.Sync()
}

// summaryCache returns a redis cache when REDIS_ADDR is set. Failing to reach
// redis degrades to no caching.
func (a *app) summaryCache(ctx context.Context) (cache.SummaryCache, func()) {
	if a.cfg.RedisAddr == "" {
		return cache.Nop{}, func() {}
	}
	rc, err := cache.NewRedisCache(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB, a.cfg.CacheTTL)
	if err != nil {
		a.log.Warn("redis unavailable, summary cache disabled", "addr", a.cfg.RedisAddr, "error", err)
		return cache.Nop{}, func() {}
	}
	a.log.Info("summary cache enabled", "addr", a.cfg.RedisAddr, "ttl", a.cfg.CacheTTL.String())
	return rc, func() { _ = rc.Close() }
}

// notifier returns the Telegram notifier when a bot token is configured and
// a log-only notifier otherwise
func (a *app) notifier() scheduler.Notifier {
	if a.cfg.TelegramBotToken == "" {
		return notify.NewLog(a.log)
	}
	tg, err := notify.NewTelegram(a.cfg.TelegramBotToken, a.log)
	if err != nil {
		a.log.Warn("telegram unavailable, reminders will only be logged", "error", err)
		return notify.NewLog(a.log)
	}
	return tg
}

func (a *app) scheduler(progressSvc *progress.Service) *scheduler.Scheduler {
	window := scheduler.Window{StartHour: a.cfg.NotificationStartHour, EndHour: a.cfg.NotificationEndHour}
	return scheduler.New(a.db, a.notifier(), progressSvc, a.clock, window, a.log)
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
