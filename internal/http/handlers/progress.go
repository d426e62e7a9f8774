package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/example/flashdeck/internal/http/response"
	"github.com/example/flashdeck/internal/progress"
)

type ProgressHandler struct {
	progress *progress.Service
}

func NewProgressHandler(progress *progress.Service) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// GET /api/users/:userID/progress/summary
func (h *ProgressHandler) Summary(c *gin.Context) {
	userID, err := pathID(c, "userID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	summary, err := h.progress.Summary(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user_progress": summary})
}

// POST /api/users/:userID/progress/stats
func (h *ProgressHandler) Stats(c *gin.Context) {
	userID, err := pathID(c, "userID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	stats, err := h.progress.Stats(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /api/users/:userID/achievements
func (h *ProgressHandler) Achievements(c *gin.Context) {
	userID, err := pathID(c, "userID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	list, err := h.progress.Achievements(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"achievements": list})
}
