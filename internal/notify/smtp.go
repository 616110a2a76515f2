package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/wneessen/go-mail"
)

// SMTPNotifier delivers notifications as HTML email through an SMTP relay.
type SMTPNotifier struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPNotifier(host, port, username, password, from string) *SMTPNotifier {
	portNum, err := strconv.Atoi(port)
	if err != nil {
		portNum = 587
	}
	return &SMTPNotifier{
		host:     host,
		port:     portNum,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPNotifier) Send(ctx context.Context, n *Notification) error {
	msg, err := s.compose(n)
	if err != nil {
		return err
	}

	client, err := s.newClient()
	if err != nil {
		return fmt.Errorf("smtp client for %s: %w", s.host, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send %s notification to %s: %w", n.Kind, n.Recipient, err)
	}
	return nil
}

// compose builds the outgoing message; go-mail handles address validation
// and header encoding.
func (s *SMTPNotifier) compose(n *Notification) (*mail.Msg, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}
	body, err := Render(n)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", s.from, err)
	}
	if err := msg.To(n.Recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", n.Recipient, err)
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

func (s *SMTPNotifier) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.username),
			mail.WithPassword(s.password),
		)
	}
	return mail.NewClient(s.host, opts...)
}
