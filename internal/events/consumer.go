package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/the-connection/app-connection-api/internal/cache"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// Consumer subscribes to domain events and fans microblogs out to follower
// timelines in Redis.
type Consumer struct {
	nc        *nats.Conn
	users     storage.UserStore
	timelines *cache.TimelineStore
	subs      []*nats.Subscription
}

func NewConsumer(nc *nats.Conn, users storage.UserStore, timelines *cache.TimelineStore) *Consumer {
	return &Consumer{nc: nc, users: users, timelines: timelines}
}

// Start registers the subscriptions. Call Stop to drain them.
func (c *Consumer) Start() error {
	sub, err := c.nc.Subscribe(SubjectMicroblogCreated, c.handleMicroblogCreated)
	if err != nil {
		return err
	}
	c.subs = append(c.subs, sub)
	return nil
}

func (c *Consumer) Stop() {
	for _, sub := range c.subs {
		if err := sub.Drain(); err != nil {
			log.Printf("Failed to drain subscription %s: %v", sub.Subject, err)
		}
	}
}

func (c *Consumer) handleMicroblogCreated(msg *nats.Msg) {
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

	tracer := otel.Tracer("events")
	ctx, span := tracer.Start(ctx, "fanout_microblog_created", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event MicroblogCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		log.Printf("Invalid %s event: %v", msg.Subject, err)
		return
	}

	go func() {
		fanCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		followerIDs, err := c.users.FollowerIDs(fanCtx, event.AuthorID)
		if err != nil {
			log.Printf("Fan-out: failed to load followers of %s: %v", event.AuthorID, err)
			return
		}

		entry := &cache.TimelineEntry{
			MicroblogID: event.ID,
			AuthorID:    event.AuthorID,
			CreatedAt:   event.CreatedAt,
		}
		if err := c.timelines.AddToTimelines(fanCtx, followerIDs, entry); err != nil {
			log.Printf("Fan-out failed for microblog %s: %v", event.ID, err)
		}
	}()
}
