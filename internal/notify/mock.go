package notify

import (
	"context"
	"log"
	"sync"
)

// LogNotifier renders notifications and logs them instead of delivering.
// Used in development and tests.
type LogNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (l *LogNotifier) Send(ctx context.Context, n *Notification) error {
	if err := n.validate(); err != nil {
		return err
	}
	if _, err := Render(n); err != nil {
		return err
	}

	l.mu.Lock()
	l.sent = append(l.sent, *n)
	l.mu.Unlock()

	log.Printf("Notification %s -> %s: %s", n.Kind, n.Recipient, n.Subject)
	return nil
}

// Sent returns a copy of everything delivered so far.
func (l *LogNotifier) Sent() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.sent))
	copy(out, l.sent)
	return out
}
