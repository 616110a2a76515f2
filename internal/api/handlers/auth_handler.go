package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/the-connection/app-connection-api/internal/auth"
	middlewares "github.com/the-connection/app-connection-api/internal/middleware"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/notify"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// AuthHandler serves registration, login and session management.
type AuthHandler struct {
	store    storage.Store
	hasher   *auth.PasswordHasher
	sessions *auth.SessionProvider
	notifier notify.Notifier
}

func NewAuthHandler(store storage.Store, hasher *auth.PasswordHasher, sessions *auth.SessionProvider, notifier notify.Notifier) *AuthHandler {
	return &AuthHandler{
		store:    store,
		hasher:   hasher,
		sessions: sessions,
		notifier: notifier,
	}
}

type RegisterRequest struct {
	Email         string   `json:"email" binding:"required,email"`
	Username      string   `json:"username" binding:"required,min=3,max=30,alphanum"`
	Password      string   `json:"password" binding:"required,min=8,max=128"`
	DisplayName   string   `json:"display_name" binding:"omitempty,max=80"`
	PreferredTags []string `json:"preferred_tags" binding:"omitempty,max=10,dive,topictag"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Register a new account
// @Description Creates a user and opens a session for it.
// @Tags auth
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "Account details"
// @Success 201 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var request RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	hash, err := h.hasher.Hash(request.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Email:         request.Email,
		Username:      request.Username,
		DisplayName:   request.DisplayName,
		PasswordHash:  hash,
		Role:          models.RoleUser,
		PreferredTags: request.PreferredTags,
		CreatedAt:     time.Now(),
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}

	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		respondStoreError(c, err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := h.notifier.Send(ctx, &notify.Notification{
			Kind:      notify.KindWelcome,
			Recipient: user.Email,
			Subject:   "Welcome to The Connection",
			Data:      map[string]string{"Username": user.Username},
		})
		if err != nil {
			log.Printf("Welcome notification for %s failed: %v", user.Username, err)
		}
	}()

	h.openSession(c, user)
	respond(c, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Verifies credentials and opens a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var request LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), request.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": models.ErrInvalidCredentials.Error()})
			return
		}
		respondStoreError(c, err)
		return
	}

	if err := h.hasher.Compare(user.PasswordHash, request.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": models.ErrInvalidCredentials.Error()})
		return
	}

	h.openSession(c, user)
	respond(c, http.StatusOK, user)
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} APIResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	respond(c, http.StatusOK, gin.H{"logged_out": true})
}

// Me godoc
// @Summary Current user
// @Description Returns the authenticated user.
// @Tags auth
// @Produce json
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.store.UserByID(c.Request.Context(), middlewares.GetUserID(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *AuthHandler) openSession(c *gin.Context, user *models.User) {
	token, err := h.sessions.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		log.Printf("Failed to issue session for %s: %v", user.Username, err)
		return
	}
	maxAge := int(h.sessions.TTL().Seconds())
	c.SetCookie(auth.SessionCookie, token, maxAge, "/", "", false, true)
}
