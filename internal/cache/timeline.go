package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TimelineEntry is one cached feed entry, the fan-out unit pushed to each
// follower's timeline.
type TimelineEntry struct {
	MicroblogID string
	AuthorID    string
	CreatedAt   time.Time
}

// TimelineStore keeps per-user timelines as Redis sorted sets keyed by
// timeline:<user_id>, scored by creation time.
type TimelineStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTimelineStore(client *redis.Client) *TimelineStore {
	return &TimelineStore{
		client: client,
		ttl:    24 * 30 * time.Hour,
	}
}

// AddToTimelines pushes one entry onto every given user's timeline in a
// single pipeline, refreshing each key's TTL.
func (s *TimelineStore) AddToTimelines(ctx context.Context, userIDs []string, entry *TimelineEntry) error {
	if len(userIDs) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	member := fmt.Sprintf("%s:%s", entry.AuthorID, entry.MicroblogID)
	score := float64(entry.CreatedAt.Unix())

	for _, uid := range userIDs {
		key := timelineKey(uid)
		pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: member})
		pipe.Expire(ctx, key, s.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Timeline returns the newest entries for a user, newest first.
func (s *TimelineStore) Timeline(ctx context.Context, userID string, offset, limit int64) ([]TimelineEntry, error) {
	results, err := s.client.ZRevRangeWithScores(ctx, timelineKey(userID), offset, offset+limit-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]TimelineEntry, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		parts := strings.SplitN(member, ":", 2)
		if len(parts) != 2 {
			continue
		}
		entries = append(entries, TimelineEntry{
			AuthorID:    parts[0],
			MicroblogID: parts[1],
			CreatedAt:   time.Unix(int64(z.Score), 0),
		})
	}

	return entries, nil
}

// Invalidate drops a user's cached timeline.
func (s *TimelineStore) Invalidate(ctx context.Context, userID string) error {
	return s.client.Del(ctx, timelineKey(userID)).Err()
}

func timelineKey(userID string) string {
	return "timeline:" + userID
}
