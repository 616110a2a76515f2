package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	middlewares "github.com/the-connection/app-connection-api/internal/middleware"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/notify"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// PrayerHandler serves prayer requests and the pray action.
type PrayerHandler struct {
	store    storage.Store
	notifier notify.Notifier
}

func NewPrayerHandler(store storage.Store, notifier notify.Notifier) *PrayerHandler {
	return &PrayerHandler{store: store, notifier: notifier}
}

type CreatePrayerRequest struct {
	Title     string `json:"title" binding:"required,min=3,max=120"`
	Body      string `json:"body" binding:"omitempty,max=2000"`
	Anonymous bool   `json:"anonymous"`
}

// Create godoc
// @Summary Post a prayer request
// @Tags prayers
// @Accept json
// @Produce json
// @Param request body CreatePrayerRequest true "Prayer request"
// @Success 201 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/prayers [post]
func (h *PrayerHandler) Create(c *gin.Context) {
	var request CreatePrayerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	prayer := &models.PrayerRequest{
		ID:        uuid.NewString(),
		AuthorID:  middlewares.GetUserID(c),
		Title:     request.Title,
		Body:      request.Body,
		Anonymous: request.Anonymous,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreatePrayerRequest(c.Request.Context(), prayer); err != nil {
		respondStoreError(c, err)
		return
	}

	respond(c, http.StatusCreated, redactPrayer(prayer, middlewares.GetUserID(c)))
}

// Get godoc
// @Summary Fetch a prayer request
// @Tags prayers
// @Produce json
// @Param id path string true "Prayer request id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/prayers/{id} [get]
func (h *PrayerHandler) Get(c *gin.Context) {
	prayer, err := h.store.PrayerRequestByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, redactPrayer(prayer, middlewares.GetUserID(c)))
}

// List godoc
// @Summary List prayer requests
// @Tags prayers
// @Produce json
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {object} APIResponse
// @Router /api/v1/prayers [get]
func (h *PrayerHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	prayers, err := h.store.ListPrayerRequests(c.Request.Context(), limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	viewer := middlewares.GetUserID(c)
	out := make([]models.PrayerRequest, 0, len(prayers))
	for i := range prayers {
		out = append(out, *redactPrayer(&prayers[i], viewer))
	}
	respond(c, http.StatusOK, out)
}

// Pray godoc
// @Summary Pray for a request
// @Description Increments the prayer counter and notifies the author.
// @Tags prayers
// @Produce json
// @Param id path string true "Prayer request id"
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/prayers/{id}/pray [post]
func (h *PrayerHandler) Pray(c *gin.Context) {
	ctx := c.Request.Context()
	prayerID := c.Param("id")
	supporterID := middlewares.GetUserID(c)

	prayer, err := h.store.PrayForRequest(ctx, prayerID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	interaction := &models.Interaction{
		ID:              uuid.NewString(),
		UserID:          supporterID,
		ContentID:       prayerID,
		ContentType:     models.ContentPrayer,
		InteractionType: models.InteractionPray,
		AuthorID:        prayer.AuthorID,
		CreatedAt:       time.Now(),
	}
	if err := h.store.RecordInteraction(ctx, interaction); err != nil {
		log.Printf("Failed to log prayer for request %s: %v", prayerID, err)
	}

	h.notifyAuthor(prayer, middlewares.GetUserName(c))
	respond(c, http.StatusOK, redactPrayer(prayer, supporterID))
}

func (h *PrayerHandler) notifyAuthor(prayer *models.PrayerRequest, supporterName string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		author, err := h.store.UserByID(ctx, prayer.AuthorID)
		if err != nil {
			return
		}
		err = h.notifier.Send(ctx, &notify.Notification{
			Kind:      notify.KindPrayerSupport,
			Recipient: author.Email,
			Subject:   "Someone is praying for you",
			Data: map[string]string{
				"SupporterName": supporterName,
				"RequestTitle":  prayer.Title,
				"PrayerCount":   strconv.Itoa(prayer.PrayerCount),
			},
		})
		if err != nil {
			log.Printf("Prayer notification for request %s failed: %v", prayer.ID, err)
		}
	}()
}

// redactPrayer hides the author of anonymous requests from everyone but the
// author.
func redactPrayer(prayer *models.PrayerRequest, viewerID string) *models.PrayerRequest {
	if !prayer.Anonymous || prayer.AuthorID == viewerID {
		return prayer
	}
	redacted := *prayer
	redacted.AuthorID = ""
	return &redacted
}
