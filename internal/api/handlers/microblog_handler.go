package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/the-connection/app-connection-api/internal/cache"
	"github.com/the-connection/app-connection-api/internal/events"
	middlewares "github.com/the-connection/app-connection-api/internal/middleware"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/search"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// MicroblogHandler serves microblog posting, reading and likes.
type MicroblogHandler struct {
	store     storage.Store
	publisher *events.Publisher
	search    *search.Client
	timelines *cache.TimelineStore
}

// NewMicroblogHandler creates the handler. publisher, searchClient and
// timelines may be nil when the corresponding backend is not configured.
func NewMicroblogHandler(store storage.Store, publisher *events.Publisher, searchClient *search.Client, timelines *cache.TimelineStore) *MicroblogHandler {
	return &MicroblogHandler{
		store:     store,
		publisher: publisher,
		search:    searchClient,
		timelines: timelines,
	}
}

type CreateMicroblogRequest struct {
	Content string   `json:"content" binding:"required,min=1,max=1000"`
	Tags    []string `json:"tags" binding:"omitempty,max=5,dive,topictag"`
}

// Create godoc
// @Summary Post a microblog
// @Tags microblogs
// @Accept json
// @Produce json
// @Param microblog body CreateMicroblogRequest true "Microblog"
// @Success 201 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/microblogs [post]
func (h *MicroblogHandler) Create(c *gin.Context) {
	var request CreateMicroblogRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	blog := &models.Microblog{
		ID:        uuid.NewString(),
		AuthorID:  middlewares.GetUserID(c),
		Content:   request.Content,
		Tags:      request.Tags,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreateMicroblog(c.Request.Context(), blog); err != nil {
		respondStoreError(c, err)
		return
	}

	if h.publisher != nil {
		if err := h.publisher.MicroblogCreated(c.Request.Context(), blog); err != nil {
			log.Printf("Failed to publish microblog.created for %s: %v", blog.ID, err)
		}
	}
	if h.search != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.search.IndexMicroblog(ctx, blog); err != nil {
			log.Printf("Search indexing failed for microblog %s: %v", blog.ID, err)
		}
	}

	respond(c, http.StatusCreated, blog)
}

// Get godoc
// @Summary Fetch a microblog
// @Tags microblogs
// @Produce json
// @Param id path string true "Microblog id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/microblogs/{id} [get]
func (h *MicroblogHandler) Get(c *gin.Context) {
	blog, err := h.store.MicroblogByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, blog)
}

// List godoc
// @Summary List recent microblogs
// @Tags microblogs
// @Produce json
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {object} APIResponse
// @Router /api/v1/microblogs [get]
func (h *MicroblogHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	blogs, err := h.store.ListMicroblogs(c.Request.Context(), limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, blogs)
}

// Like godoc
// @Summary Like a microblog
// @Description Increments the like counter and logs a like interaction.
// @Tags microblogs
// @Produce json
// @Param id path string true "Microblog id"
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/microblogs/{id}/like [post]
func (h *MicroblogHandler) Like(c *gin.Context) {
	blogID := c.Param("id")
	ctx := c.Request.Context()

	blog, err := h.store.MicroblogByID(ctx, blogID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if err := h.store.LikeMicroblog(ctx, blogID); err != nil {
		respondStoreError(c, err)
		return
	}

	interaction := &models.Interaction{
		ID:              uuid.NewString(),
		UserID:          middlewares.GetUserID(c),
		ContentID:       blogID,
		ContentType:     models.ContentMicroblog,
		InteractionType: models.InteractionLike,
		AuthorID:        blog.AuthorID,
		CreatedAt:       time.Now(),
	}
	if err := h.store.RecordInteraction(ctx, interaction); err != nil {
		log.Printf("Failed to log like of microblog %s: %v", blogID, err)
	}

	respond(c, http.StatusOK, gin.H{"liked": true})
}

// Timeline godoc
// @Summary Follower timeline
// @Description Returns the cached fan-out timeline for the authenticated
// user, hydrated from storage.
// @Tags microblogs
// @Produce json
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/microblogs/timeline [get]
func (h *MicroblogHandler) Timeline(c *gin.Context) {
	if h.timelines == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "timeline cache not configured"})
		return
	}

	limit := int64(50)
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	ctx := c.Request.Context()
	entries, err := h.timelines.Timeline(ctx, middlewares.GetUserID(c), 0, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read timeline"})
		return
	}

	blogs := make([]models.Microblog, 0, len(entries))
	for _, entry := range entries {
		blog, err := h.store.MicroblogByID(ctx, entry.MicroblogID)
		if err != nil {
			continue
		}
		blogs = append(blogs, *blog)
	}

	respond(c, http.StatusOK, blogs)
}
