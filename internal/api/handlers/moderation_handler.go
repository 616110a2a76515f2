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
	"github.com/the-connection/app-connection-api/internal/moderation"
	"github.com/the-connection/app-connection-api/internal/notify"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// ModerationHandler serves report intake and admin resolution.
type ModerationHandler struct {
	store    storage.Store
	screener *moderation.Screener
	notifier notify.Notifier
}

func NewModerationHandler(store storage.Store, screener *moderation.Screener, notifier notify.Notifier) *ModerationHandler {
	return &ModerationHandler{store: store, screener: screener, notifier: notifier}
}

type CreateReportRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=microblog community event prayer message"`
	ContentID   string `json:"content_id" binding:"required"`
	Reason      string `json:"reason" binding:"required,min=3,max=1000"`
}

type ResolveReportRequest struct {
	Status     string `json:"status" binding:"required,oneof=resolved dismissed"`
	Resolution string `json:"resolution" binding:"omitempty,max=1000"`
}

// CreateReport godoc
// @Summary Report content
// @Description Files a moderation report. Severity is suggested by the
// content screener when configured.
// @Tags moderation
// @Accept json
// @Produce json
// @Param report body CreateReportRequest true "Report"
// @Success 201 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/moderation/reports [post]
func (h *ModerationHandler) CreateReport(c *gin.Context) {
	var request CreateReportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	report := &models.ModerationReport{
		ID:          uuid.NewString(),
		ReporterID:  middlewares.GetUserID(c),
		ContentType: request.ContentType,
		ContentID:   request.ContentID,
		Reason:      request.Reason,
		Status:      models.ReportStatusOpen,
		Severity:    models.SeverityLow,
		CreatedAt:   time.Now(),
	}
	if h.screener != nil && h.screener.Available() {
		report.Severity = h.screener.SuggestSeverity(c.Request.Context(), report)
	}

	if err := h.store.CreateReport(c.Request.Context(), report); err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusCreated, report)
}

// ListReports godoc
// @Summary List reports
// @Description Admin-only listing, filterable by status.
// @Tags moderation
// @Produce json
// @Param status query string false "open, resolved or dismissed"
// @Param limit query int false "Maximum results (default 50)"
// @Success 200 {object} APIResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/moderation/reports [get]
func (h *ModerationHandler) ListReports(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	reports, err := h.store.ListReports(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	respond(c, http.StatusOK, reports)
}

// ResolveReport godoc
// @Summary Resolve a report
// @Description Admin-only. Closes an open report and notifies the reporter.
// A report can only be closed once.
// @Tags moderation
// @Accept json
// @Produce json
// @Param id path string true "Report id"
// @Param resolution body ResolveReportRequest true "Resolution"
// @Success 200 {object} APIResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/moderation/reports/{id}/resolve [post]
func (h *ModerationHandler) ResolveReport(c *gin.Context) {
	var request ResolveReportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	reportID := c.Param("id")
	resolverID := middlewares.GetUserID(c)

	if err := h.store.ResolveReport(ctx, reportID, resolverID, request.Status, request.Resolution); err != nil {
		respondStoreError(c, err)
		return
	}

	report, err := h.store.ReportByID(ctx, reportID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	h.notifyReporter(report)
	respond(c, http.StatusOK, report)
}

func (h *ModerationHandler) notifyReporter(report *models.ModerationReport) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		reporter, err := h.store.UserByID(ctx, report.ReporterID)
		if err != nil {
			return
		}
		err = h.notifier.Send(ctx, &notify.Notification{
			Kind:      notify.KindReportClosed,
			Recipient: reporter.Email,
			Subject:   "Your report has been reviewed",
			Data: map[string]string{
				"Status":     report.Status,
				"Resolution": report.Resolution,
			},
		})
		if err != nil {
			log.Printf("Report notification for %s failed: %v", report.ID, err)
		}
	}()
}
