package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/the-connection/app-connection-api/internal/search"
)

// SearchHandler serves full-text search over communities and microblogs.
type SearchHandler struct {
	search *search.Client
}

func NewSearchHandler(searchClient *search.Client) *SearchHandler {
	return &SearchHandler{search: searchClient}
}

// Search godoc
// @Summary Search communities and microblogs
// @Tags search
// @Produce json
// @Param q query string true "Query text"
// @Param type query string false "communities or microblogs (default communities)"
// @Param page query int false "Page number (default 1)"
// @Param per_page query int false "Page size (default 20)"
// @Success 200 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /api/v1/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search not configured"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	perPage := 20
	if raw := c.Query("per_page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			perPage = parsed
		}
	}

	ctx := c.Request.Context()
	var (
		result *search.Result
		err    error
	)
	switch c.DefaultQuery("type", "communities") {
	case "communities":
		result, err = h.search.SearchCommunities(ctx, query, page, perPage)
	case "microblogs":
		result, err = h.search.SearchMicroblogs(ctx, query, page, perPage)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be communities or microblogs"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	respond(c, http.StatusOK, result)
}
