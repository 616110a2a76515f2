package recommend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/the-connection/app-connection-api/internal/config"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/storage"
)

func seedFeedFixture(t *testing.T, store *storage.MemoryStore, now time.Time) {
	t.Helper()
	ctx := context.Background()

	users := []*models.User{
		{ID: "viewer", Username: "viewer", Email: "viewer@example.com", PreferredTags: []string{"prayer"}, CreatedAt: now},
		{ID: "alice", Username: "alice", Email: "alice@example.com", VerifiedAnswerer: true, CreatedAt: now},
		{ID: "bob", Username: "bob", Email: "bob@example.com", CreatedAt: now},
		{ID: "carol", Username: "carol", Email: "carol@example.com", CreatedAt: now},
	}
	for _, u := range users {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser(%s): %v", u.Username, err)
		}
	}

	authors := []string{"alice", "bob", "carol"}
	for i := 0; i < 12; i++ {
		blog := &models.Microblog{
			ID:        fmt.Sprintf("blog-%d", i),
			AuthorID:  authors[i%len(authors)],
			Content:   fmt.Sprintf("update %d about prayer and fellowship", i),
			LikeCount: i,
			CreatedAt: now.Add(-time.Duration(i) * time.Hour),
		}
		if err := store.CreateMicroblog(ctx, blog); err != nil {
			t.Fatalf("CreateMicroblog: %v", err)
		}
	}

	for i := 0; i < 9; i++ {
		comm := &models.Community{
			ID:           fmt.Sprintf("comm-%d", i),
			Name:         fmt.Sprintf("Community %d", i),
			Slug:         fmt.Sprintf("community-%d", i),
			CreatedBy:    "alice",
			InterestTags: []string{"prayer"},
			MemberCount:  10 * (i + 1),
			CreatedAt:    now.Add(-time.Duration(i) * 24 * time.Hour),
		}
		if err := store.CreateCommunity(ctx, comm); err != nil {
			t.Fatalf("CreateCommunity: %v", err)
		}
	}
}

func newTestService(t *testing.T, now time.Time) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	seedFeedFixture(t, store, now)
	svc := NewService(store, config.RecommendConfig{
		DefaultLimit:        20,
		InteractionWindow:   100,
		CandidateWindowDays: 30,
	})
	svc.now = func() time.Time { return now }
	return svc, store
}

func TestBuildFeedRespectsLimits(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, now)

	feed, err := svc.BuildFeed(context.Background(), "viewer", 6)
	if err != nil {
		t.Fatalf("BuildFeed: %v", err)
	}

	if len(feed.Microblogs) > 6 {
		t.Errorf("len(Microblogs) = %d, want <= 6", len(feed.Microblogs))
	}
	if len(feed.Communities) > 2 {
		t.Errorf("len(Communities) = %d, want <= limit/3 = 2", len(feed.Communities))
	}

	perAuthor := make(map[string]int)
	for _, item := range feed.Microblogs {
		perAuthor[item.AuthorID]++
	}
	for author, n := range perAuthor {
		if n > MaxPerAuthor {
			t.Errorf("author %s appears %d times, want <= %d", author, n, MaxPerAuthor)
		}
	}
}

func TestBuildFeedSortedByScore(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, now)

	feed, err := svc.BuildFeed(context.Background(), "viewer", 20)
	if err != nil {
		t.Fatalf("BuildFeed: %v", err)
	}
	if len(feed.Microblogs) == 0 {
		t.Fatal("expected a non-empty feed")
	}

	for i := 1; i < len(feed.Microblogs); i++ {
		if feed.Microblogs[i].Score > feed.Microblogs[i-1].Score {
			t.Errorf("feed not sorted: item %d score %f > item %d score %f",
				i, feed.Microblogs[i].Score, i-1, feed.Microblogs[i-1].Score)
		}
	}
	for _, item := range feed.Microblogs {
		if item.AuthorID == "viewer" {
			t.Errorf("feed contains viewer's own microblog %s", item.ID)
		}
	}
}

func TestBuildFeedExcludesStaleContent(t *testing.T) {
	now := time.Now()
	svc, store := newTestService(t, now)

	stale := &models.Microblog{
		ID:        "stale",
		AuthorID:  "bob",
		Content:   "an old post",
		CreatedAt: now.Add(-31 * 24 * time.Hour),
	}
	if err := store.CreateMicroblog(context.Background(), stale); err != nil {
		t.Fatalf("CreateMicroblog: %v", err)
	}

	feed, err := svc.BuildFeed(context.Background(), "viewer", 50)
	if err != nil {
		t.Fatalf("BuildFeed: %v", err)
	}
	for _, item := range feed.Microblogs {
		if item.ID == "stale" {
			t.Error("feed contains content older than the candidate window")
		}
	}
}

func TestBuildFeedUnknownUser(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, now)

	feed, err := svc.BuildFeed(context.Background(), "ghost", 20)
	if err != nil {
		t.Fatalf("BuildFeed: %v", err)
	}
	if len(feed.Microblogs) != 0 || len(feed.Communities) != 0 {
		t.Errorf("expected an empty feed for an unknown user, got %d microblogs and %d communities",
			len(feed.Microblogs), len(feed.Communities))
	}
}

func TestRecordInteraction(t *testing.T) {
	now := time.Now()
	svc, store := newTestService(t, now)
	ctx := context.Background()

	before := store.InteractionCount()
	err := svc.RecordInteraction(ctx, &models.Interaction{
		UserID:          "viewer",
		ContentType:     models.ContentMicroblog,
		ContentID:       "blog-1",
		InteractionType: models.InteractionLike,
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if got := store.InteractionCount(); got != before+1 {
		t.Errorf("interaction count = %d, want %d", got, before+1)
	}

	// Duplicates append again: the log is not deduplicated.
	err = svc.RecordInteraction(ctx, &models.Interaction{
		UserID:          "viewer",
		ContentType:     models.ContentMicroblog,
		ContentID:       "blog-1",
		InteractionType: models.InteractionLike,
	})
	if err != nil {
		t.Fatalf("RecordInteraction (repeat): %v", err)
	}
	if got := store.InteractionCount(); got != before+2 {
		t.Errorf("interaction count = %d, want %d", got, before+2)
	}
}

func TestRecordInteractionValidation(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, now)
	ctx := context.Background()

	tests := []struct {
		name        string
		interaction models.Interaction
		want        error
	}{
		{
			name: "missing content id",
			interaction: models.Interaction{
				UserID:          "viewer",
				ContentType:     models.ContentMicroblog,
				InteractionType: models.InteractionLike,
			},
			want: models.ErrMissingContentID,
		},
		{
			name: "bad content type",
			interaction: models.Interaction{
				UserID:          "viewer",
				ContentType:     "podcast",
				ContentID:       "blog-1",
				InteractionType: models.InteractionLike,
			},
			want: models.ErrInvalidContentType,
		},
		{
			name: "bad interaction type",
			interaction: models.Interaction{
				UserID:          "viewer",
				ContentType:     models.ContentMicroblog,
				ContentID:       "blog-1",
				InteractionType: "bookmark",
			},
			want: models.ErrInvalidInteraction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.RecordInteraction(ctx, &tt.interaction); !errors.Is(err, tt.want) {
				t.Errorf("RecordInteraction error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRelationshipLiftsFollowedAuthors(t *testing.T) {
	now := time.Now()
	svc, store := newTestService(t, now)
	ctx := context.Background()

	baseline, err := svc.BuildFeed(ctx, "viewer", 20)
	if err != nil {
		t.Fatalf("BuildFeed: %v", err)
	}
	baseScores := make(map[string]float64)
	for _, item := range baseline.Microblogs {
		baseScores[item.ID] = item.Score
	}

	if err := store.Follow(ctx, "viewer", "carol"); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	feed, err := svc.BuildFeed(ctx, "viewer", 20)
	if err != nil {
		t.Fatalf("BuildFeed after follow: %v", err)
	}
	lifted := false
	for _, item := range feed.Microblogs {
		if item.AuthorID != "carol" {
			continue
		}
		if prev, ok := baseScores[item.ID]; ok && item.Score > prev {
			lifted = true
		}
		if item.Breakdown.Relationship != 1.0 {
			t.Errorf("Relationship = %f for a followed author, want 1.0", item.Breakdown.Relationship)
		}
	}
	if !lifted {
		t.Error("following carol did not raise any of her scores")
	}
}
