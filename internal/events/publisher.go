package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/the-connection/app-connection-api/internal/models"
)

const (
	SubjectMicroblogCreated    = "microblog.created"
	SubjectInteractionRecorded = "interaction.recorded"
)

// MicroblogCreatedEvent is the wire contract consumed by the fan-out worker.
type MicroblogCreatedEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Snippet   string    `json:"snippet"`
	CreatedAt time.Time `json:"created_at"`
}

// InteractionRecordedEvent mirrors a row of the interaction log.
type InteractionRecordedEvent struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	ContentType string    `json:"content_type"`
	ContentID   string    `json:"content_id"`
	AuthorID    string    `json:"author_id,omitempty"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Publisher emits domain events over NATS with the current trace context
// injected into the message headers.
type Publisher struct {
	nc *nats.Conn
}

func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

const snippetRunes = 140

func (p *Publisher) MicroblogCreated(ctx context.Context, blog *models.Microblog) error {
	return p.publish(ctx, SubjectMicroblogCreated, MicroblogCreatedEvent{
		ID:        blog.ID,
		AuthorID:  blog.AuthorID,
		Snippet:   truncate(blog.Content, snippetRunes),
		CreatedAt: blog.CreatedAt,
	})
}

// truncate shortens s to at most max runes, never splitting a multi-byte
// character.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func (p *Publisher) InteractionRecorded(ctx context.Context, interaction *models.Interaction) error {
	return p.publish(ctx, SubjectInteractionRecorded, InteractionRecordedEvent{
		ID:          interaction.ID,
		UserID:      interaction.UserID,
		ContentType: string(interaction.ContentType),
		ContentID:   interaction.ContentID,
		AuthorID:    interaction.AuthorID,
		Type:        string(interaction.InteractionType),
		CreatedAt:   interaction.CreatedAt,
	})
}

func (p *Publisher) publish(ctx context.Context, subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	return p.nc.PublishMsg(msg)
}
