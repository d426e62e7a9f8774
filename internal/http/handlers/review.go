package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/example/flashdeck/internal/apperr"
	"github.com/example/flashdeck/internal/http/response"
	"github.com/example/flashdeck/internal/review"
)

type ReviewHandler struct {
	reviews *review.Service
}

func NewReviewHandler(reviews *review.Service) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// POST /api/users/:userID/cards/:cardID/review
// body: { "quality": 0..5, "response_time": seconds }
func (h *ReviewHandler) Grade(c *gin.Context) {
	userID, err := pathID(c, "userID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	cardID, err := pathID(c, "cardID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	var req struct {
		Quality      *int     `json:"quality"`
		ResponseTime *float64 `json:"response_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, invalidBody(err))
		return
	}
	if req.Quality == nil {
		response.RespondServiceError(c, apperr.Invalid("quality", "is required"))
		return
	}
	if req.ResponseTime == nil {
		response.RespondServiceError(c, apperr.Invalid("response_time", "is required"))
		return
	}

	state, err := h.reviews.GradeReview(c.Request.Context(), userID, cardID, *req.Quality, *req.ResponseTime)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"state": state})
}

// GET /api/users/:userID/due
func (h *ReviewHandler) Due(c *gin.Context) {
	userID, err := pathID(c, "userID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	cards, err := h.reviews.DueCards(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cards": cards, "count": len(cards)})
}

// GET /api/users/:userID/progress
func (h *ReviewHandler) Progress(c *gin.Context) {
	userID, err := pathID(c, "userID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	states, err := h.reviews.Progress(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": states})
}
