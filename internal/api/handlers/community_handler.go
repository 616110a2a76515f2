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
	"github.com/the-connection/app-connection-api/internal/search"
	"github.com/the-connection/app-connection-api/internal/storage"
	"github.com/the-connection/app-connection-api/internal/utils"
)

// CommunityHandler serves community CRUD and membership.
type CommunityHandler struct {
	store  storage.Store
	search *search.Client
}

// NewCommunityHandler creates the handler. search may be nil when the
// search backend is not configured.
func NewCommunityHandler(store storage.Store, searchClient *search.Client) *CommunityHandler {
	return &CommunityHandler{store: store, search: searchClient}
}

type CreateCommunityRequest struct {
	Name         string   `json:"name" binding:"required,min=3,max=80"`
	Description  string   `json:"description" binding:"omitempty,max=2000"`
	InterestTags []string `json:"interest_tags" binding:"omitempty,max=10,dive,topictag"`
}

// Create godoc
// @Summary Create a community
// @Tags communities
// @Accept json
// @Produce json
// @Param community body CreateCommunityRequest true "Community"
// @Success 201 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/communities [post]
func (h *CommunityHandler) Create(c *gin.Context) {
	var request CreateCommunityRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	id := uuid.NewString()
	community := &models.Community{
		ID:           id,
		Name:         request.Name,
		Slug:         utils.GenerateSlug(request.Name, id),
		Description:  request.Description,
		InterestTags: request.InterestTags,
		CreatedBy:    middlewares.GetUserID(c),
		CreatedAt:    time.Now(),
	}

	if err := h.store.CreateCommunity(c.Request.Context(), community); err != nil {
		respondStoreError(c, err)
		return
	}

	h.index(community)
	respond(c, http.StatusCreated, community)
}

// Get godoc
// @Summary Fetch a community
// @Tags communities
// @Produce json
// @Param id path string true "Community id"
// @Success 200 {object} APIResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/communities/{id} [get]
func (h *CommunityHandler) Get(c *gin.Context) {
	community, err := h.store.CommunityByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, community)
}

// List godoc
// @Summary List communities
// @Tags communities
// @Produce json
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {object} APIResponse
// @Router /api/v1/communities [get]
func (h *CommunityHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	communities, err := h.store.ListCommunities(c.Request.Context(), limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, communities)
}

// Join godoc
// @Summary Join a community
// @Tags communities
// @Produce json
// @Param id path string true "Community id"
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/communities/{id}/join [post]
func (h *CommunityHandler) Join(c *gin.Context) {
	communityID := c.Param("id")
	userID := middlewares.GetUserID(c)

	if err := h.store.JoinCommunity(c.Request.Context(), communityID, userID); err != nil {
		respondStoreError(c, err)
		return
	}

	h.recordMembership(c.Request.Context(), communityID, userID)
	h.reindex(c.Request.Context(), communityID)
	respond(c, http.StatusOK, gin.H{"joined": true})
}

// Leave godoc
// @Summary Leave a community
// @Tags communities
// @Produce json
// @Param id path string true "Community id"
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/communities/{id}/leave [post]
func (h *CommunityHandler) Leave(c *gin.Context) {
	communityID := c.Param("id")
	if err := h.store.LeaveCommunity(c.Request.Context(), communityID, middlewares.GetUserID(c)); err != nil {
		respondStoreError(c, err)
		return
	}
	h.reindex(c.Request.Context(), communityID)
	respond(c, http.StatusOK, gin.H{"left": true})
}

// recordMembership logs a join in the interaction log so the feed learns
// community affinity.
func (h *CommunityHandler) recordMembership(ctx context.Context, communityID, userID string) {
	interaction := &models.Interaction{
		ID:              uuid.NewString(),
		UserID:          userID,
		ContentID:       communityID,
		ContentType:     models.ContentCommunity,
		InteractionType: models.InteractionJoin,
		CreatedAt:       time.Now(),
	}
	if err := h.store.RecordInteraction(ctx, interaction); err != nil {
		log.Printf("Failed to log join of community %s: %v", communityID, err)
	}
}

func (h *CommunityHandler) index(community *models.Community) {
	if h.search == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.search.IndexCommunity(ctx, community); err != nil {
		log.Printf("Search indexing failed for community %s: %v", community.ID, err)
	}
}

func (h *CommunityHandler) reindex(ctx context.Context, communityID string) {
	if h.search == nil {
		return
	}
	community, err := h.store.CommunityByID(ctx, communityID)
	if err != nil {
		return
	}
	h.index(community)
}
