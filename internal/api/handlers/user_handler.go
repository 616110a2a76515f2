package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	middlewares "github.com/the-connection/app-connection-api/internal/middleware"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// UserHandler serves public profiles and the follow graph.
type UserHandler struct {
	store storage.Store
}

func NewUserHandler(store storage.Store) *UserHandler {
	return &UserHandler{store: store}
}

// PublicProfile is the subset of a user shown to other members.
type PublicProfile struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"display_name"`
	VerifiedAnswerer bool      `json:"verified_answerer"`
	PreferredTags    []string  `json:"preferred_tags"`
	CreatedAt        time.Time `json:"created_at"`
}

// Get godoc
// @Summary Public profile
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} APIResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/users/{username} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.store.UserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, PublicProfile{
		ID:               user.ID,
		Username:         user.Username,
		DisplayName:      user.DisplayName,
		VerifiedAnswerer: user.VerifiedAnswerer,
		PreferredTags:    user.PreferredTags,
		CreatedAt:        user.CreatedAt,
	})
}

// Follow godoc
// @Summary Follow a user
// @Tags users
// @Produce json
// @Param username path string true "Username to follow"
// @Success 200 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/users/{username}/follow [post]
func (h *UserHandler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	followerID := middlewares.GetUserID(c)

	target, err := h.store.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if target.ID == followerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrSelfFollow.Error()})
		return
	}

	if err := h.store.Follow(ctx, followerID, target.ID); err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"following": true})
}

// Unfollow godoc
// @Summary Unfollow a user
// @Tags users
// @Produce json
// @Param username path string true "Username to unfollow"
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/users/{username}/follow [delete]
func (h *UserHandler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	target, err := h.store.UserByUsername(ctx, c.Param("username"))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if err := h.store.Unfollow(ctx, middlewares.GetUserID(c), target.ID); err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"following": false})
}
