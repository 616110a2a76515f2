package models

import "time"

// DirectMessage is a private message between two members. Delivery to
// connected clients goes through the realtime relay; this record is
// the durable copy.
type DirectMessage struct {
	ID          string     `json:"id"`
	SenderID    string     `json:"sender_id"`
	RecipientID string     `json:"recipient_id"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
