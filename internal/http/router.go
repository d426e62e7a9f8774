package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/example/flashdeck/internal/http/handlers"
	httpMW "github.com/example/flashdeck/internal/http/middleware"
	"github.com/example/flashdeck/internal/platform/logger"
)

type RouterConfig struct {
	Logger      *logger.Logger
	CORSOrigins []string

	HealthHandler   *httpH.HealthHandler
	UserHandler     *httpH.UserHandler
	DeckHandler     *httpH.DeckHandler
	ReviewHandler   *httpH.ReviewHandler
	ProgressHandler *httpH.ProgressHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestID())
	r.Use(httpMW.RequestLogger(cfg.Logger))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Users
		if cfg.UserHandler != nil {
			api.POST("/users", cfg.UserHandler.Create)
			api.GET("/users/:userID", cfg.UserHandler.Get)
		}

		// Decks and cards
		if cfg.DeckHandler != nil {
			api.POST("/decks", cfg.DeckHandler.Create)
			api.GET("/decks/:deckID", cfg.DeckHandler.Get)
			api.POST("/decks/:deckID/archive", cfg.DeckHandler.Archive)
			api.GET("/decks/:deckID/cards", cfg.DeckHandler.ListCards)
			api.POST("/decks/:deckID/cards", cfg.DeckHandler.AddCard)
			api.GET("/decks/:deckID/stats", cfg.DeckHandler.Stats)
		}

		// Reviews
		if cfg.ReviewHandler != nil {
			api.POST("/users/:userID/cards/:cardID/review", cfg.ReviewHandler.Grade)
			api.GET("/users/:userID/due", cfg.ReviewHandler.Due)
			api.GET("/users/:userID/progress", cfg.ReviewHandler.Progress)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			api.GET("/users/:userID/progress/summary", cfg.ProgressHandler.Summary)
			api.POST("/users/:userID/progress/stats", cfg.ProgressHandler.Stats)
			api.GET("/users/:userID/achievements", cfg.ProgressHandler.Achievements)
		}
	}

	return r
}
