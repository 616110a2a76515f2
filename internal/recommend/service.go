package recommend

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/the-connection/app-connection-api/internal/config"
	"github.com/the-connection/app-connection-api/internal/models"
)

// DataSource is the storage surface the feed pipeline reads from. All
// methods return snapshots; the pipeline never writes through this
// interface except to append interaction rows.
type DataSource interface {
	UserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	FollowedUsers(ctx context.Context, userID string) ([]string, error)
	UserInteractions(ctx context.Context, userID string, limit int) ([]models.Interaction, error)
	CandidateMicroblogs(ctx context.Context, userID string, since time.Time) ([]models.Microblog, error)
	CandidateCommunities(ctx context.Context, userID string) ([]models.Community, error)
	RecordInteraction(ctx context.Context, interaction *models.Interaction) error
}

// EventPublisher receives interaction events after they are persisted.
// Fire-and-forget: publish failures are logged, never surfaced.
type EventPublisher interface {
	InteractionRecorded(ctx context.Context, interaction *models.Interaction) error
}

// Service ranks feed candidates for a user and records interactions.
type Service struct {
	source    DataSource
	scorer    *Scorer
	cfg       config.RecommendConfig
	publisher EventPublisher

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewService(source DataSource, cfg config.RecommendConfig) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.InteractionWindow <= 0 {
		cfg.InteractionWindow = 100
	}
	if cfg.CandidateWindowDays <= 0 {
		cfg.CandidateWindowDays = 30
	}
	return &Service{
		source: source,
		scorer: NewScorer(DefaultWeights()),
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithPublisher attaches an event publisher; nil disables publishing.
func (s *Service) WithPublisher(p EventPublisher) *Service {
	s.publisher = p
	return s
}

// BuildFeed produces the ranked, author-diversified feed for a user.
// An unresolvable profile degrades to an empty feed: "nothing to show"
// is not an error.
func (s *Service) BuildFeed(ctx context.Context, userID string, limit int) (*models.FeedData, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	empty := &models.FeedData{
		Microblogs:  []models.ScoredMicroblog{},
		Communities: []models.ScoredCommunity{},
	}

	profile, err := s.source.UserProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return empty, nil
		}
		return nil, err
	}

	rc, err := s.buildRankContext(ctx, userID, profile)
	if err != nil {
		return nil, err
	}

	since := rc.Now.AddDate(0, 0, -s.cfg.CandidateWindowDays)
	candidates, err := s.source.CandidateMicroblogs(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	scored := make([]models.ScoredMicroblog, 0, len(candidates))
	for i := range candidates {
		scored = append(scored, s.scorer.ScoreMicroblog(&candidates[i], rc))
	}
	sortScoredMicroblogs(scored)

	communities, err := s.rankCommunities(ctx, userID, rc, limit/3)
	if err != nil {
		return nil, err
	}

	return &models.FeedData{
		Microblogs:  Diversify(scored, limit),
		Communities: communities,
	}, nil
}

func (s *Service) buildRankContext(ctx context.Context, userID string, profile *models.UserProfile) (*RankContext, error) {
	followedIDs, err := s.source.FollowedUsers(ctx, userID)
	if err != nil {
		return nil, err
	}
	followed := make(map[string]bool, len(followedIDs))
	for _, id := range followedIDs {
		followed[id] = true
	}

	// Bounded window of recent history; the log itself is unbounded.
	history, err := s.source.UserInteractions(ctx, userID, s.cfg.InteractionWindow)
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[string]int)
	for _, it := range history {
		if it.AuthorID != "" {
			byAuthor[it.AuthorID]++
		}
	}

	return &RankContext{
		Profile:              profile,
		Followed:             followed,
		InteractionsByAuthor: byAuthor,
		Now:                  s.now(),
	}, nil
}

func (s *Service) rankCommunities(ctx context.Context, userID string, rc *RankContext, limit int) ([]models.ScoredCommunity, error) {
	out := []models.ScoredCommunity{}
	if limit <= 0 {
		return out, nil
	}

	candidates, err := s.source.CandidateCommunities(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		out = append(out, s.scorer.ScoreCommunity(&candidates[i], rc))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortScoredMicroblogs(items []models.ScoredMicroblog) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		// Deterministic tie-break: newer first, then by ID.
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

// RecordInteraction validates and appends one row to the interaction
// log, then notifies the event bus. No idempotency key: duplicate
// reports create duplicate rows, an accepted limitation.
func (s *Service) RecordInteraction(ctx context.Context, interaction *models.Interaction) error {
	if interaction.ContentID == "" {
		return models.ErrMissingContentID
	}
	if !interaction.ContentType.IsValid() {
		return models.ErrInvalidContentType
	}
	if !interaction.InteractionType.IsValid() {
		return models.ErrInvalidInteraction
	}

	if interaction.ID == "" {
		interaction.ID = uuid.NewString()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = s.now()
	}

	if err := s.source.RecordInteraction(ctx, interaction); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.InteractionRecorded(ctx, interaction); err != nil {
			log.Printf("interaction event publish failed: %v", err)
		}
	}
	return nil
}
