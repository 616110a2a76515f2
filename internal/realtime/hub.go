package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/the-connection/app-connection-api/internal/models"
)

// Hub tracks connected clients by user id and pushes direct messages to the
// recipient's open connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes client registrations until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.userID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}
			h.mu.Unlock()

		case <-ctx.Done():
			// Closing done first unblocks any add/remove still waiting,
			// so no connection goroutine outlives the hub.
			close(h.done)
			h.mu.Lock()
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// add hands the client to the hub loop. Reports false when the hub has
// already shut down.
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// DeliverMessage pushes a direct message to every open connection of the
// recipient. Connections with a full send buffer are skipped.
func (h *Hub) DeliverMessage(msg *models.DirectMessage) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":    "direct_message",
		"message": msg,
	})
	if err != nil {
		log.Printf("Failed to encode realtime message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[msg.RecipientID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}

// Online reports whether a user has at least one open connection.
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}
