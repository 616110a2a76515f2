package notify

import (
	"context"
	"fmt"
)

// Kind identifies the notification template to use.
type Kind string

const (
	KindWelcome       Kind = "welcome"
	KindPrayerSupport Kind = "prayer_support"
	KindEventReminder Kind = "event_reminder"
	KindReportClosed  Kind = "report_closed"
)

// Notification is one outbound message to a user.
type Notification struct {
	Kind      Kind
	Recipient string
	Subject   string
	// Data feeds the markdown template for the chosen kind.
	Data map[string]string
}

// Notifier delivers notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Send(ctx context.Context, n *Notification) error
}

func (n *Notification) validate() error {
	if n.Recipient == "" {
		return fmt.Errorf("notification has no recipient")
	}
	if _, ok := templates[n.Kind]; !ok {
		return fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	return nil
}
