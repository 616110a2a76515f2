package models

import "time"

// Moderation report statuses.
const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// Severity labels a screener or moderator can assign to reported content.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// ModerationReport is a member's complaint about a piece of content.
type ModerationReport struct {
	ID          string    `json:"id"`
	ReporterID  string    `json:"reporter_id"`
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	// Severity is suggested by the content screener when available and
	// can be overridden by the resolving admin.
	Severity   string     `json:"severity,omitempty"`
	Resolution string     `json:"resolution,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
