package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	middlewares "github.com/the-connection/app-connection-api/internal/middleware"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/realtime"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// MessageHandler serves direct messages and the websocket relay.
type MessageHandler struct {
	store storage.Store
	hub   *realtime.Hub
}

func NewMessageHandler(store storage.Store, hub *realtime.Hub) *MessageHandler {
	return &MessageHandler{store: store, hub: hub}
}

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Body        string `json:"body" binding:"required,min=1,max=4000"`
}

// Send godoc
// @Summary Send a direct message
// @Description Stores the message and pushes it to the recipient's open
// websocket connections.
// @Tags messages
// @Accept json
// @Produce json
// @Param message body SendMessageRequest true "Message"
// @Success 201 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var request SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	senderID := middlewares.GetUserID(c)
	if request.RecipientID == senderID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		return
	}
	if _, err := h.store.UserByID(ctx, request.RecipientID); err != nil {
		respondStoreError(c, err)
		return
	}

	msg := &models.DirectMessage{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: request.RecipientID,
		Body:        request.Body,
		CreatedAt:   time.Now(),
	}
	if err := h.store.CreateMessage(ctx, msg); err != nil {
		respondStoreError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.DeliverMessage(msg)
	}
	respond(c, http.StatusCreated, msg)
}

// Conversation godoc
// @Summary Conversation history
// @Description Returns messages exchanged with another user, newest first.
// @Tags messages
// @Produce json
// @Param user_id path string true "The other participant"
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/messages/{user_id} [get]
func (h *MessageHandler) Conversation(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := h.store.Conversation(c.Request.Context(), middlewares.GetUserID(c), c.Param("user_id"), limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, messages)
}

// Connect godoc
// @Summary Open the realtime relay
// @Description Upgrades to a websocket that receives direct messages as
// they arrive.
// @Tags messages
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} map[string]string
// @Router /api/v1/messages/ws [get]
func (h *MessageHandler) Connect(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime relay not configured"})
		return
	}
	if err := realtime.ServeWS(h.hub, c.Writer, c.Request, middlewares.GetUserID(c)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade failed"})
	}
}
