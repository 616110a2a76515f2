package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/the-connection/app-connection-api/internal/models"
)

func seedUsers(t *testing.T, store *MemoryStore, ids ...string) {
	t.Helper()
	for _, id := range ids {
		err := store.CreateUser(context.Background(), &models.User{
			ID:        id,
			Username:  id,
			Email:     id + "@example.com",
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("CreateUser(%s): %v", id, err)
		}
	}
}

func TestCreateUserDuplicates(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seedUsers(t, store, "ruth")

	err := store.CreateUser(ctx, &models.User{ID: "x", Username: "ruth", Email: "other@example.com"})
	if !errors.Is(err, models.ErrAlreadyExists) {
		t.Errorf("duplicate username: err = %v, want ErrAlreadyExists", err)
	}
	err = store.CreateUser(ctx, &models.User{ID: "y", Username: "other", Email: "ruth@example.com"})
	if !errors.Is(err, models.ErrAlreadyExists) {
		t.Errorf("duplicate email: err = %v, want ErrAlreadyExists", err)
	}
}

func TestFollowGraph(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seedUsers(t, store, "ruth", "naomi")

	if err := store.Follow(ctx, "ruth", "ruth"); !errors.Is(err, models.ErrSelfFollow) {
		t.Errorf("self follow: err = %v, want ErrSelfFollow", err)
	}
	if err := store.Follow(ctx, "ruth", "naomi"); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	followed, err := store.FollowedUsers(ctx, "ruth")
	if err != nil {
		t.Fatalf("FollowedUsers: %v", err)
	}
	if len(followed) != 1 || followed[0] != "naomi" {
		t.Errorf("FollowedUsers = %v, want [naomi]", followed)
	}
	followers, err := store.FollowerIDs(ctx, "naomi")
	if err != nil {
		t.Fatalf("FollowerIDs: %v", err)
	}
	if len(followers) != 1 || followers[0] != "ruth" {
		t.Errorf("FollowerIDs = %v, want [ruth]", followers)
	}

	if err := store.Unfollow(ctx, "ruth", "naomi"); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}
	followed, _ = store.FollowedUsers(ctx, "ruth")
	if len(followed) != 0 {
		t.Errorf("after unfollow FollowedUsers = %v, want empty", followed)
	}
}

func TestCandidateMicroblogs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seedUsers(t, store, "viewer", "author")

	ctxErr := store.CreateUser(ctx, &models.User{
		ID: "sage", Username: "sage", Email: "sage@example.com", VerifiedAnswerer: true,
	})
	if ctxErr != nil {
		t.Fatalf("CreateUser: %v", ctxErr)
	}

	now := time.Now()
	blogs := []*models.Microblog{
		{ID: "own", AuthorID: "viewer", Content: "mine", CreatedAt: now},
		{ID: "fresh", AuthorID: "author", Content: "fresh", CreatedAt: now.Add(-time.Hour)},
		{ID: "stale", AuthorID: "author", Content: "stale", CreatedAt: now.AddDate(0, 0, -40)},
		{ID: "verified", AuthorID: "sage", Content: "wisdom", CreatedAt: now.Add(-2 * time.Hour)},
	}
	for _, b := range blogs {
		if err := store.CreateMicroblog(ctx, b); err != nil {
			t.Fatalf("CreateMicroblog(%s): %v", b.ID, err)
		}
	}

	since := now.AddDate(0, 0, -30)
	candidates, err := store.CandidateMicroblogs(ctx, "viewer", since)
	if err != nil {
		t.Fatalf("CandidateMicroblogs: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("len(candidates) = %d, want 2", len(candidates))
	}
	for _, c := range candidates {
		if c.ID == "own" {
			t.Error("viewer's own post returned as candidate")
		}
		if c.ID == "stale" {
			t.Error("post older than window returned as candidate")
		}
		if c.AuthorUsername == "" {
			t.Errorf("candidate %s missing author username", c.ID)
		}
		if c.ID == "verified" && !c.AuthorVerified {
			t.Error("verified answerer flag not attached")
		}
	}
	if !candidates[0].CreatedAt.After(candidates[1].CreatedAt) {
		t.Error("candidates not sorted newest first")
	}
}

func TestCandidateCommunitiesExcludesMemberships(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seedUsers(t, store, "viewer", "founder")

	for _, c := range []*models.Community{
		{ID: "c1", Name: "Morning Prayer", Slug: "morning-prayer-c1", CreatedBy: "founder", CreatedAt: time.Now()},
		{ID: "c2", Name: "Bible Study", Slug: "bible-study-c2", CreatedBy: "founder", CreatedAt: time.Now().Add(time.Minute)},
	} {
		if err := store.CreateCommunity(ctx, c); err != nil {
			t.Fatalf("CreateCommunity(%s): %v", c.ID, err)
		}
	}
	if err := store.JoinCommunity(ctx, "c1", "viewer"); err != nil {
		t.Fatalf("JoinCommunity: %v", err)
	}

	candidates, err := store.CandidateCommunities(ctx, "viewer")
	if err != nil {
		t.Fatalf("CandidateCommunities: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != "c2" {
		t.Errorf("candidates = %v, want only c2", candidates)
	}
}

func TestUserInteractionsWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seedUsers(t, store, "viewer", "other")

	for i := 0; i < 5; i++ {
		err := store.RecordInteraction(ctx, &models.Interaction{
			ID:              string(rune('a' + i)),
			UserID:          "viewer",
			ContentID:       "blog",
			ContentType:     models.ContentMicroblog,
			InteractionType: models.InteractionView,
			CreatedAt:       time.Now(),
		})
		if err != nil {
			t.Fatalf("RecordInteraction: %v", err)
		}
	}
	err := store.RecordInteraction(ctx, &models.Interaction{
		ID: "z", UserID: "other", ContentID: "blog",
		ContentType: models.ContentMicroblog, InteractionType: models.InteractionLike,
	})
	if err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}

	history, err := store.UserInteractions(ctx, "viewer", 3)
	if err != nil {
		t.Fatalf("UserInteractions: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("len(history) = %d, want 3", len(history))
	}
	if len(history) > 0 && history[0].ID != "e" {
		t.Errorf("newest interaction first: got %s, want e", history[0].ID)
	}
	for _, h := range history {
		if h.UserID != "viewer" {
			t.Errorf("interaction for %s leaked into viewer history", h.UserID)
		}
	}
}

func TestPrayForRequestIncrements(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seedUsers(t, store, "ruth")

	pr := &models.PrayerRequest{
		ID: "p1", AuthorID: "ruth", Title: "healing", Body: "pray for my family",
		CreatedAt: time.Now(),
	}
	if err := store.CreatePrayerRequest(ctx, pr); err != nil {
		t.Fatalf("CreatePrayerRequest: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.PrayForRequest(ctx, "p1"); err != nil {
			t.Fatalf("PrayForRequest: %v", err)
		}
	}
	got, err := store.PrayerRequestByID(ctx, "p1")
	if err != nil {
		t.Fatalf("PrayerRequestByID: %v", err)
	}
	if got.PrayerCount != 3 {
		t.Errorf("PrayerCount = %d, want 3", got.PrayerCount)
	}

	if _, err := store.PrayForRequest(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("pray for missing request: err = %v, want ErrNotFound", err)
	}
}
