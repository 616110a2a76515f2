package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	middlewares "github.com/the-connection/app-connection-api/internal/middleware"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/recommend"
	"github.com/the-connection/app-connection-api/internal/storage"
)

const maxFeedLimit = 100

// RecommendationHandler serves the personalized feed and the interaction
// intake endpoint.
type RecommendationHandler struct {
	feed  *recommend.Service
	store storage.Store
}

func NewRecommendationHandler(feed *recommend.Service, store storage.Store) *RecommendationHandler {
	return &RecommendationHandler{feed: feed, store: store}
}

// InteractionRequest accepts both key spellings: the documented camelCase
// contract and the snake_case used across the rest of the API.
type InteractionRequest struct {
	ContentType string `json:"contentType"`
	ContentID   string `json:"contentId"`
	Type        string `json:"interactionType"`

	ContentTypeAlt string `json:"content_type"`
	ContentIDAlt   string `json:"content_id"`
	TypeAlt        string `json:"interaction_type"`
}

func (r *InteractionRequest) normalize() {
	if r.ContentType == "" {
		r.ContentType = r.ContentTypeAlt
	}
	if r.ContentID == "" {
		r.ContentID = r.ContentIDAlt
	}
	if r.Type == "" {
		r.Type = r.TypeAlt
	}
}

// Feed godoc
// @Summary Personalized feed
// @Description Returns scored microblogs and community suggestions for the
// authenticated user. New users with no history get a cold-start feed.
// @Tags recommendations
// @Produce json
// @Param limit query int false "Maximum microblogs returned (default 20, cap 100)"
// @Success 200 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/recommendations/feed [get]
func (h *RecommendationHandler) Feed(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	feed, err := h.feed.BuildFeed(c.Request.Context(), middlewares.GetUserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build feed"})
		return
	}

	respond(c, http.StatusOK, feed)
}

// RecordInteraction godoc
// @Summary Record an interaction
// @Description Appends a view/like/comment/share signal to the interaction
// log. Duplicates are accepted and stored as separate rows.
// @Tags recommendations
// @Accept json
// @Produce json
// @Param interaction body InteractionRequest true "Interaction"
// @Success 201 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/recommendations/interaction [post]
func (h *RecommendationHandler) RecordInteraction(c *gin.Context) {
	var request InteractionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	request.normalize()

	interaction := &models.Interaction{
		UserID:          middlewares.GetUserID(c),
		ContentType:     models.ContentType(request.ContentType),
		ContentID:       request.ContentID,
		InteractionType: models.InteractionType(request.Type),
	}
	h.stampAuthor(c, interaction)

	if err := h.feed.RecordInteraction(c.Request.Context(), interaction); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidContentType),
			errors.Is(err, models.ErrInvalidInteraction),
			errors.Is(err, models.ErrMissingContentID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record interaction"})
		}
		return
	}

	respond(c, http.StatusCreated, interaction)
}

// stampAuthor resolves the content author so relationship scoring can count
// the interaction without re-resolving content later. Best effort: unknown
// content still gets logged.
func (h *RecommendationHandler) stampAuthor(c *gin.Context, interaction *models.Interaction) {
	ctx := c.Request.Context()
	switch interaction.ContentType {
	case models.ContentMicroblog:
		if blog, err := h.store.MicroblogByID(ctx, interaction.ContentID); err == nil {
			interaction.AuthorID = blog.AuthorID
		} else if !errors.Is(err, models.ErrNotFound) {
			log.Printf("Author lookup failed for microblog %s: %v", interaction.ContentID, err)
		}
	case models.ContentCommunity:
		if community, err := h.store.CommunityByID(ctx, interaction.ContentID); err == nil {
			interaction.AuthorID = community.CreatedBy
		}
	case models.ContentEvent:
		if event, err := h.store.EventByID(ctx, interaction.ContentID); err == nil {
			interaction.AuthorID = event.CreatedBy
		}
	}
}
