package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/the-connection/app-connection-api/internal/search"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store  storage.Store
	search *search.Client
}

func NewHealthHandler(store storage.Store, searchClient *search.Client) *HealthHandler {
	return &HealthHandler{store: store, search: searchClient}
}

// HealthResponse is the probe payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Error     string            `json:"error,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

// Liveness godoc
// @Summary Liveness probe
// @Description Confirms the process is running; no dependency checks.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /liveness [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// Readiness godoc
// @Summary Readiness probe
// @Description Verifies the primary store is reachable.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readiness [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ready",
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	if err := h.store.Ping(ctx); err != nil {
		response.Checks["storage"] = "failed"
		response.Status = "not_ready"
		response.Error = "storage not available"
	} else {
		response.Checks["storage"] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status == "not_ready" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}

// Health godoc
// @Summary Full health check
// @Description Checks storage and, when configured, the search backend.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Checks:    make(map[string]string),
		Timestamp: time.Now().Unix(),
	}

	if err := h.store.Ping(ctx); err != nil {
		response.Checks["storage"] = "failed"
		response.Status = "unhealthy"
		response.Error = "storage check failed"
	} else {
		response.Checks["storage"] = "ok"
	}

	if h.search != nil {
		if _, err := h.search.GetClient().Health(ctx, 2*time.Second); err != nil {
			response.Checks["typesense"] = "failed"
			response.Status = "unhealthy"
			response.Error = "typesense check failed"
		} else {
			response.Checks["typesense"] = "ok"
		}
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}
