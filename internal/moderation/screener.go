package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"github.com/the-connection/app-connection-api/internal/models"
)

// Screener suggests a severity for newly filed reports using Gemini with a
// structured output schema. A nil client disables screening; reports then
// keep the default severity until a moderator reviews them.
type Screener struct {
	client *genai.Client
	model  string
}

func NewScreener(client *genai.Client, model string) *Screener {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Screener{client: client, model: model}
}

func (s *Screener) Available() bool {
	return s.client != nil
}

func severitySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"severity": {
				Type:        genai.TypeString,
				Description: "One of: low, medium, high",
				Enum:        []string{models.SeverityLow, models.SeverityMedium, models.SeverityHigh},
			},
		},
		Required: []string{"severity"},
	}
}

// SuggestSeverity classifies the reported content. Failures fall back to the
// current severity so a flaky model never blocks report intake.
func (s *Screener) SuggestSeverity(ctx context.Context, report *models.ModerationReport) string {
	if s.client == nil {
		return report.Severity
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(`You are triaging reports for a faith-based community platform.
Classify the severity of the reported content.

Reason given by the reporter: %s
Reported content type: %s

Use "high" for threats, harassment or targeting of individuals, "medium" for
spam or repeated disruptive behavior, and "low" for everything else.`,
		report.Reason, report.ContentType)

	content := genai.NewContentFromText(prompt, genai.RoleUser)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   severitySchema(),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, []*genai.Content{content}, config)
	if err != nil {
		log.Printf("Severity screening failed for report %s: %v", report.ID, err)
		return report.Severity
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return report.Severity
	}

	var result struct {
		Severity string `json:"severity"`
	}
	raw := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Printf("Failed to parse screening output for report %s: %v", report.ID, err)
		return report.Severity
	}

	switch result.Severity {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh:
		return result.Severity
	default:
		return report.Severity
	}
}
