package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	middlewares "github.com/the-connection/app-connection-api/internal/middleware"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// EventHandler serves community events and RSVPs.
type EventHandler struct {
	store storage.Store
}

func NewEventHandler(store storage.Store) *EventHandler {
	return &EventHandler{store: store}
}

type CreateEventRequest struct {
	CommunityID string    `json:"community_id" binding:"required"`
	Title       string    `json:"title" binding:"required,min=3,max=120"`
	Description string    `json:"description" binding:"omitempty,max=2000"`
	Location    string    `json:"location" binding:"omitempty,max=200"`
	StreamURL   string    `json:"stream_url" binding:"omitempty,url"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"omitempty,gtfield=StartsAt"`
}

type RSVPRequest struct {
	Status string `json:"status" binding:"required,oneof=going maybe declined"`
}

// Create godoc
// @Summary Announce an event
// @Description Creates an event inside a community the caller belongs to.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event"
// @Success 201 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var request CreateEventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := middlewares.GetUserID(c)

	memberIDs, err := h.store.UserCommunityIDs(ctx, userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	isMember := false
	for _, id := range memberIDs {
		if id == request.CommunityID {
			isMember = true
			break
		}
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": models.ErrNotCommunityMember.Error()})
		return
	}

	event := &models.Event{
		ID:          uuid.NewString(),
		CommunityID: request.CommunityID,
		Title:       request.Title,
		Description: request.Description,
		Location:    request.Location,
		StreamURL:   request.StreamURL,
		StartsAt:    request.StartsAt,
		EndsAt:      request.EndsAt,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}

	if err := h.store.CreateEvent(ctx, event); err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusCreated, event)
}

// Get godoc
// @Summary Fetch an event
// @Tags events
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.store.EventByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, event)
}

// List godoc
// @Summary List upcoming events
// @Tags events
// @Produce json
// @Param community_id query string false "Restrict to one community"
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {object} APIResponse
// @Router /api/v1/events [get]
func (h *EventHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	events, err := h.store.ListEvents(c.Request.Context(), c.Query("community_id"), limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, events)
}

// RSVP godoc
// @Summary RSVP to an event
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param rsvp body RSVPRequest true "RSVP"
// @Success 200 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/events/{id}/rsvp [post]
func (h *EventHandler) RSVP(c *gin.Context) {
	var request RSVPRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	eventID := c.Param("id")
	if _, err := h.store.EventByID(ctx, eventID); err != nil {
		respondStoreError(c, err)
		return
	}

	rsvp := &models.EventRSVP{
		EventID:   eventID,
		UserID:    middlewares.GetUserID(c),
		Status:    request.Status,
		CreatedAt: time.Now(),
	}
	if err := h.store.RSVPEvent(ctx, rsvp); err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, rsvp)
}
