package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/example/flashdeck/internal/catalog"
	"github.com/example/flashdeck/internal/http/response"
	"github.com/example/flashdeck/internal/progress"
	"github.com/example/flashdeck/pkg/models"
)

type DeckHandler struct {
	catalog  *catalog.Service
	progress *progress.Service
}

func NewDeckHandler(catalog *catalog.Service, progress *progress.Service) *DeckHandler {
	return &DeckHandler{catalog: catalog, progress: progress}
}

// POST /api/decks
// body: { "owner_id", "name", "description", "language", "level", "category", "is_public" }
func (h *DeckHandler) Create(c *gin.Context) {
	var req struct {
		OwnerID     int64  `json:"owner_id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Language    string `json:"language"`
		Level       string `json:"level"`
		Category    string `json:"category"`
		IsPublic    *bool  `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, invalidBody(err))
		return
	}

	deck := &models.Deck{
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Language:    req.Language,
		Level:       req.Level,
		Category:    req.Category,
		IsPublic:    true,
	}
	if req.IsPublic != nil {
		deck.IsPublic = *req.IsPublic
	}
	if err := h.catalog.CreateDeck(c.Request.Context(), deck); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"deck": deck})
}

// GET /api/decks/:deckID
func (h *DeckHandler) Get(c *gin.Context) {
	id, err := pathID(c, "deckID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	deck, err := h.catalog.GetDeck(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deck": deck})
}

// POST /api/decks/:deckID/archive
// body: { "archived": true|false }
func (h *DeckHandler) Archive(c *gin.Context) {
	id, err := pathID(c, "deckID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var req struct {
		Archived bool `json:"archived"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, invalidBody(err))
		return
	}
	if err := h.catalog.ArchiveDeck(c.Request.Context(), id, req.Archived); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/decks/:deckID/cards
// body: { "front", "back", "example" }
func (h *DeckHandler) AddCard(c *gin.Context) {
	deckID, err := pathID(c, "deckID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	var req struct {
		Front   string `json:"front"`
		Back    string `json:"back"`
		Example string `json:"example"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondServiceError(c, invalidBody(err))
		return
	}

	card := &models.Flashcard{DeckID: deckID, Front: req.Front, Back: req.Back, Example: req.Example}
	if err := h.catalog.AddCard(c.Request.Context(), card); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"card": card})
}

// GET /api/decks/:deckID/cards
func (h *DeckHandler) ListCards(c *gin.Context) {
	deckID, err := pathID(c, "deckID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	cards, err := h.catalog.ListCards(c.Request.Context(), deckID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cards": cards})
}

// GET /api/decks/:deckID/stats
func (h *DeckHandler) Stats(c *gin.Context) {
	deckID, err := pathID(c, "deckID")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	deck, err := h.progress.RecomputeDeck(c.Request.Context(), deckID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deck": deck})
}
