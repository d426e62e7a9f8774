package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/flashdeck/internal/catalog"
	httpServer "github.com/example/flashdeck/internal/http"
	httpH "github.com/example/flashdeck/internal/http/handlers"
	"github.com/example/flashdeck/internal/progress"
	"github.com/example/flashdeck/internal/review"
	"github.com/example/flashdeck/internal/spaced_repetition"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the reminder scheduler when enabled)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		summaries, closeCache := a.summaryCache(ctx)
		defer closeCache()

		catalogSvc := catalog.NewService(a.db, a.clock, a.log)
		progressSvc := progress.NewService(a.db, a.clock, summaries, a.log)
		reviewSvc := review.NewService(a.db, a.clock, spaced_repetition.NewSM2(), a.log)

		if a.cfg.EnableScheduler {
			sched := a.scheduler(progressSvc)
			if err := sched.Start(ctx); err != nil {
				return err
			}
			defer sched.Stop()
		}

		server := httpServer.NewServer(a.cfg.HTTPAddr, httpServer.RouterConfig{
			Logger:          a.log,
			CORSOrigins:     a.cfg.CORSOrigins,
			HealthHandler:   httpH.NewHealthHandler(a.db),
			UserHandler:     httpH.NewUserHandler(catalogSvc),
			DeckHandler:     httpH.NewDeckHandler(catalogSvc, progressSvc),
			ReviewHandler:   httpH.NewReviewHandler(reviewSvc),
			ProgressHandler: httpH.NewProgressHandler(progressSvc),
		})

		a.log.Info("http server listening", "addr", a.cfg.HTTPAddr, "scheduler", a.cfg.EnableScheduler)
		if err := server.Run(ctx); err != nil {
			return err
		}
		a.log.Info("http server stopped")
		return nil
	},
}
