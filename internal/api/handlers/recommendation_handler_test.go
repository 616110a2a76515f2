package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/the-connection/app-connection-api/internal/auth"
	"github.com/the-connection/app-connection-api/internal/config"
	middlewares "github.com/the-connection/app-connection-api/internal/middleware"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/recommend"
	"github.com/the-connection/app-connection-api/internal/storage"
)

func newRecommendationRouter(t *testing.T) (*gin.Engine, *storage.MemoryStore, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := storage.NewMemoryStore()
	ctx := context.Background()

	users := []*models.User{
		{ID: "viewer", Username: "viewer", Email: "viewer@example.com", CreatedAt: time.Now()},
		{ID: "author", Username: "author", Email: "author@example.com", CreatedAt: time.Now()},
	}
	for _, u := range users {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}
	blog := &models.Microblog{
		ID:        "blog-1",
		AuthorID:  "author",
		Content:   "morning devotional thoughts",
		CreatedAt: time.Now(),
	}
	if err := store.CreateMicroblog(ctx, blog); err != nil {
		t.Fatalf("CreateMicroblog: %v", err)
	}

	sessions := auth.NewSessionProvider("test-secret", time.Hour)
	token, err := sessions.Issue("viewer", "viewer", models.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	feed := recommend.NewService(store, config.RecommendConfig{})
	handler := NewRecommendationHandler(feed, store)

	r := gin.New()
	r.Use(middlewares.SessionAuth(sessions))
	authed := r.Group("/api/v1", middlewares.RequireAuthentication())
	authed.GET("/recommendations/feed", handler.Feed)
	authed.POST("/recommendations/interaction", handler.RecordInteraction)

	return r, store, token
}

func TestRecordInteractionRequiresAuth(t *testing.T) {
	r, store, _ := newRecommendationRouter(t)

	body := `{"content_type":"microblog","content_id":"blog-1","interaction_type":"like"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/interaction", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if store.InteractionCount() != 0 {
		t.Error("unauthenticated request reached storage")
	}
}

func TestRecordInteractionInvalidType(t *testing.T) {
	r, store, token := newRecommendationRouter(t)

	body := `{"content_type":"microblog","content_id":"blog-1","interaction_type":"bookmark"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/interaction", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if store.InteractionCount() != 0 {
		t.Error("invalid interaction was stored")
	}
}

func TestRecordInteractionLike(t *testing.T) {
	r, store, token := newRecommendationRouter(t)

	body := `{"content_type":"microblog","content_id":"blog-1","interaction_type":"like"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/interaction", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if store.InteractionCount() != 1 {
		t.Errorf("interaction count = %d, want 1", store.InteractionCount())
	}

	var response APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !response.Success {
		t.Error("response success = false, want true")
	}
	data, ok := response.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want an object", response.Data)
	}
	if data["author_id"] != "author" {
		t.Errorf("author_id = %v, want author", data["author_id"])
	}
}

func TestRecordInteractionCamelCaseKeys(t *testing.T) {
	r, store, token := newRecommendationRouter(t)

	body := `{"contentType":"microblog","contentId":"blog-1","interactionType":"like"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/interaction", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusCreated, w.Body.String())
	}
	if store.InteractionCount() != 1 {
		t.Errorf("interaction count = %d, want 1", store.InteractionCount())
	}
}

func TestRecordInteractionMissingContentID(t *testing.T) {
	r, store, token := newRecommendationRouter(t)

	body := `{"contentType":"microblog","interactionType":"like"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/interaction", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if store.InteractionCount() != 0 {
		t.Error("incomplete interaction was stored")
	}
}

func TestFeedEndpoint(t *testing.T) {
	r, _, token := newRecommendationRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/feed?limit=5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var response APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	data, ok := response.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want an object", response.Data)
	}
	blogs, ok := data["microblogs"].([]interface{})
	if !ok {
		t.Fatalf("microblogs is %T, want an array", data["microblogs"])
	}
	if len(blogs) != 1 {
		t.Errorf("len(microblogs) = %d, want 1", len(blogs))
	}
}

func TestFeedRejectsBadLimit(t *testing.T) {
	r, _, token := newRecommendationRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/feed?limit=zero", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
