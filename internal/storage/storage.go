// Package storage defines the persistence port of the platform and its
// two interchangeable implementations: an in-memory store for tests and
// development, and a Postgres store for production.
package storage

import (
	"context"
	"time"

	"github.com/the-connection/app-connection-api/internal/models"
)

// UserStore manages accounts and the follow graph.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)

	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	FollowedUsers(ctx context.Context, userID string) ([]string, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
}

// CommunityStore manages communities and membership.
type CommunityStore interface {
	CreateCommunity(ctx context.Context, community *models.Community) error
	CommunityByID(ctx context.Context, id string) (*models.Community, error)
	ListCommunities(ctx context.Context, limit int) ([]models.Community, error)
	JoinCommunity(ctx context.Context, communityID, userID string) error
	LeaveCommunity(ctx context.Context, communityID, userID string) error
	UserCommunityIDs(ctx context.Context, userID string) ([]string, error)
}

// ContentStore manages microblogs, prayer requests and events.
type ContentStore interface {
	CreateMicroblog(ctx context.Context, blog *models.Microblog) error
	MicroblogByID(ctx context.Context, id string) (*models.Microblog, error)
	ListMicroblogs(ctx context.Context, limit int) ([]models.Microblog, error)
	LikeMicroblog(ctx context.Context, id string) error

	CreatePrayerRequest(ctx context.Context, req *models.PrayerRequest) error
	PrayerRequestByID(ctx context.Context, id string) (*models.PrayerRequest, error)
	ListPrayerRequests(ctx context.Context, limit int) ([]models.PrayerRequest, error)
	PrayForRequest(ctx context.Context, id string) (*models.PrayerRequest, error)

	CreateEvent(ctx context.Context, event *models.Event) error
	EventByID(ctx context.Context, id string) (*models.Event, error)
	ListEvents(ctx context.Context, communityID string, limit int) ([]models.Event, error)
	RSVPEvent(ctx context.Context, rsvp *models.EventRSVP) error
}

// MessageStore manages direct messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *models.DirectMessage) error
	Conversation(ctx context.Context, userA, userB string, limit int) ([]models.DirectMessage, error)
}

// ModerationStore manages member reports.
type ModerationStore interface {
	CreateReport(ctx context.Context, report *models.ModerationReport) error
	ReportByID(ctx context.Context, id string) (*models.ModerationReport, error)
	ListReports(ctx context.Context, status string, limit int) ([]models.ModerationReport, error)
	ResolveReport(ctx context.Context, id, resolverID, status, resolution string) error
}

// RecommendationStore is the read/write surface the feed pipeline
// depends on. Candidate queries return immutable snapshots; the
// interaction log is append-only.
type RecommendationStore interface {
	UserProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// RecordInteraction appends one row to the interaction log. No
	// idempotency key: duplicate reports create duplicate rows.
	RecordInteraction(ctx context.Context, interaction *models.Interaction) error

	// UserInteractions returns the most recent rows, newest first.
	UserInteractions(ctx context.Context, userID string, limit int) ([]models.Interaction, error)

	// CandidateMicroblogs returns posts authored by others within the
	// trailing window, newest first.
	CandidateMicroblogs(ctx context.Context, userID string, since time.Time) ([]models.Microblog, error)

	// CandidateCommunities returns communities the user has not joined.
	CandidateCommunities(ctx context.Context, userID string) ([]models.Community, error)
}

// Store is the full persistence surface of the platform.
type Store interface {
	UserStore
	CommunityStore
	ContentStore
	MessageStore
	ModerationStore
	RecommendationStore

	Ping(ctx context.Context) error
	Close()
}
