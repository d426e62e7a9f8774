package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/example/flashdeck/internal/catalog"
	"github.com/example/flashdeck/internal/http/response"
	"github.com/example/flashdeck/pkg/models"
)

type UserHandler struct {
	catalog *catalog.Service
}

func NewUserHandler(catalog *catalog.Service) *UserHandler {
	return &UserHandler{catalog: catalog}
}

// POST /api/users
// body: { "username", "email", "language", "telegram_chat_id", "notification_enabled", "notification_hour", "cards_per_day" }
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		Username            string `json:"username"`
		Email               string `json:"email"`
		Language            string `json:"language"`
		TelegramChatID      *int64 `json:"telegram_chat_id"`
		NotificationEnabled *bool  `json:"notification_enabled"`
		NotificationHour    *int   `json:"notification_hour"`
		CardsPerDay         int    `json:"cards_per_day"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, invalidBody(err))
		return
	}

	user := &models.User{
		Username:            req.Username,
		Email:               req.Email,
		Language:            req.Language,
		TelegramChatID:      req.TelegramChatID,
		NotificationEnabled: true,
		NotificationHour:    catalog.DefaultNotificationHour,
		CardsPerDay:         req.CardsPerDay,
	}
	if req.NotificationEnabled != nil {
		user.NotificationEnabled = *req.NotificationEnabled
	}
	if req.NotificationHour != nil {
		user.NotificationHour = *req.NotificationHour
	}

	if err := h.catalog.CreateUser(c.Request.Context(), user); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": user})
}

// GET /api/users/:userID
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c, "userID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	user, err := h.catalog.GetUser(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
