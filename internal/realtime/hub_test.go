package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/the-connection/app-connection-api/internal/models"
)

func waitOnline(t *testing.T, hub *Hub, userID string) {
	t.Helper()
	for i := 0; i < 100; i++ {
		if hub.Online(userID) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("user %s never came online", userID)
}

func TestDeliverMessage(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{hub: hub, userID: "naomi", send: make(chan []byte, 1)}
	if !hub.add(client) {
		t.Fatal("add failed while hub is running")
	}
	waitOnline(t, hub, "naomi")

	hub.DeliverMessage(&models.DirectMessage{
		ID:          "m1",
		SenderID:    "ruth",
		RecipientID: "naomi",
		Body:        "are you there?",
	})

	select {
	case payload := <-client.send:
		if len(payload) == 0 {
			t.Error("empty payload delivered")
		}
	case <-time.After(time.Second):
		t.Fatal("message never delivered to the recipient's connection")
	}

	if hub.Online("ruth") {
		t.Error("sender reported online without a connection")
	}
}

func TestHubShutdownUnblocksRegistration(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	client := &Client{hub: hub, userID: "naomi", send: make(chan []byte, 1)}
	if !hub.add(client) {
		t.Fatal("add failed while hub is running")
	}
	waitOnline(t, hub, "naomi")

	cancel()
	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub never shut down")
	}

	late := &Client{hub: hub, userID: "ruth", send: make(chan []byte, 1)}
	added := make(chan bool, 1)
	go func() { added <- hub.add(late) }()
	select {
	case ok := <-added:
		if ok {
			t.Error("add succeeded after shutdown")
		}
	case <-time.After(time.Second):
		t.Fatal("add blocked after shutdown")
	}

	removed := make(chan struct{})
	go func() {
		hub.remove(client)
		close(removed)
	}()
	select {
	case <-removed:
	case <-time.After(time.Second):
		t.Fatal("remove blocked after shutdown")
	}
}
