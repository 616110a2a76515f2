package models

import "time"

// ContentType identifies what kind of content an interaction targets.
type ContentType string

const (
	ContentMicroblog ContentType = "microblog"
	ContentCommunity ContentType = "community"
	ContentEvent     ContentType = "event"
	// Used by internal pray logging only; not accepted on the public
	// interaction endpoint.
	ContentPrayer ContentType = "prayer"
)

// IsValid reports whether the content type is one the API accepts.
func (c ContentType) IsValid() bool {
	switch c {
	case ContentMicroblog, ContentCommunity, ContentEvent:
		return true
	}
	return false
}

// InteractionType identifies what the user did with the content.
type InteractionType string

const (
	InteractionView    InteractionType = "view"
	InteractionLike    InteractionType = "like"
	InteractionComment InteractionType = "comment"
	InteractionShare   InteractionType = "share"
	// Recorded internally by follow/join/pray paths; not accepted on
	// the public interaction endpoint.
	InteractionFollow InteractionType = "follow"
	InteractionJoin   InteractionType = "join"
	InteractionPray   InteractionType = "pray"
)

// IsValid reports whether the interaction type is accepted on the
// public interaction endpoint.
func (i InteractionType) IsValid() bool {
	switch i {
	case InteractionView, InteractionLike, InteractionComment, InteractionShare:
		return true
	}
	return false
}

// Interaction is one row of the append-only interaction log. Rows are
// never mutated or deleted; duplicate reports create duplicate rows.
type Interaction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	ContentID       string          `json:"content_id"`
	ContentType     ContentType     `json:"content_type"`
	InteractionType InteractionType `json:"interaction_type"`
	// AuthorID of the content at the time of the interaction, kept so
	// relationship scoring does not need to re-resolve content.
	AuthorID  string    `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
