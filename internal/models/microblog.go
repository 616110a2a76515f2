package models

import "time"

// Microblog is a short post on a member's public timeline.
type Microblog struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	// ShareCount is carried for scoring but candidate queries do not
	// populate it yet; reposts are not tracked as a counter column.
	ShareCount int       `json:"share_count"`
	CreatedAt  time.Time `json:"created_at"`

	// Denormalized author fields attached when hydrating candidates.
	AuthorUsername string `json:"author_username,omitempty"`
	AuthorVerified bool   `json:"author_verified,omitempty"`
}
