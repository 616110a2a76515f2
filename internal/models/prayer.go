package models

import "time"

// PrayerRequest asks the community to pray for an intention.
// Anonymous requests hide the author from listings but keep the
// author on record for notifications.
type PrayerRequest struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Anonymous   bool      `json:"anonymous"`
	PrayerCount int       `json:"prayer_count"`
	Answered    bool      `json:"answered"`
	CreatedAt   time.Time `json:"created_at"`
}
