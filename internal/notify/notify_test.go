package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name         string
		notification Notification
		wantContains []string
	}{
		{
			name: "welcome",
			notification: Notification{
				Kind:      KindWelcome,
				Recipient: "sam@example.com",
				Data:      map[string]string{"Username": "sam"},
			},
			wantContains: []string{"<h1", "Welcome, sam"},
		},
		{
			name: "prayer support renders markdown emphasis",
			notification: Notification{
				Kind:      KindPrayerSupport,
				Recipient: "sam@example.com",
				Data: map[string]string{
					"SupporterName": "ruth",
					"RequestTitle":  "healing for my father",
					"PrayerCount":   "12",
				},
			},
			wantContains: []string{"<strong>ruth</strong>", "<blockquote>", "12 people"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(&tt.notification)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("rendered body missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := Render(&Notification{Kind: "carrier_pigeon", Recipient: "x@example.com"})
	if err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}

func TestSMTPNotifierCompose(t *testing.T) {
	notifier := NewSMTPNotifier("smtp.example.com", "587", "", "", "no-reply@theconnection.app")

	msg, err := notifier.compose(&Notification{
		Kind:      KindWelcome,
		Recipient: "sam@example.com",
		Subject:   "Welcome to The Connection",
		Data:      map[string]string{"Username": "sam"},
	})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"From: <no-reply@theconnection.app>",
		"To: <sam@example.com>",
		"Subject: Welcome to The Connection",
		"Content-Type: text/html",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("message missing %q:\n%s", want, out)
		}
	}
}

func TestSMTPNotifierComposeRejectsBadRecipient(t *testing.T) {
	notifier := NewSMTPNotifier("smtp.example.com", "587", "", "", "no-reply@theconnection.app")

	_, err := notifier.compose(&Notification{
		Kind:      KindWelcome,
		Recipient: "not an address",
		Subject:   "Welcome",
		Data:      map[string]string{"Username": "sam"},
	})
	if err == nil {
		t.Fatal("expected an error for a malformed recipient address")
	}
}

func TestLogNotifier(t *testing.T) {
	notifier := NewLogNotifier()
	ctx := context.Background()

	err := notifier.Send(ctx, &Notification{
		Kind:      KindWelcome,
		Recipient: "sam@example.com",
		Subject:   "Welcome to The Connection",
		Data:      map[string]string{"Username": "sam"},
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if got := notifier.Sent(); len(got) != 1 || got[0].Recipient != "sam@example.com" {
		t.Errorf("Sent() = %+v, want one notification to sam@example.com", got)
	}

	if err := notifier.Send(ctx, &Notification{Kind: KindWelcome}); err == nil {
		t.Error("expected an error for a notification without a recipient")
	}
}
