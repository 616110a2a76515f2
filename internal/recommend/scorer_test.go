package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/the-connection/app-connection-api/internal/models"
)

func testRankContext(tags ...string) *RankContext {
	return &RankContext{
		Profile:              &models.UserProfile{ID: "viewer", PreferredTags: tags},
		Followed:             map[string]bool{},
		InteractionsByAuthor: map[string]int{},
		Now:                  time.Now(),
	}
}

func TestEngagementScoreBounds(t *testing.T) {
	s := NewScorer(DefaultWeights())

	tests := []struct {
		name                    string
		likes, comments, shares int
	}{
		{name: "zero", likes: 0, comments: 0, shares: 0},
		{name: "small", likes: 2, comments: 1, shares: 0},
		{name: "viral", likes: 100000, comments: 50000, shares: 20000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.EngagementScore(tt.likes, tt.comments, tt.shares)
			if got < 0 || got > 1 {
				t.Errorf("EngagementScore(%d,%d,%d) = %f, want within [0,1]", tt.likes, tt.comments, tt.shares, got)
			}
		})
	}

	if got := s.EngagementScore(0, 0, 0); got != 0 {
		t.Errorf("EngagementScore(0,0,0) = %f, want 0", got)
	}
}

func TestEngagementScoreMonotonic(t *testing.T) {
	s := NewScorer(DefaultWeights())

	base := s.EngagementScore(5, 3, 1)
	if s.EngagementScore(6, 3, 1) < base {
		t.Error("engagement decreased when likes increased")
	}
	if s.EngagementScore(5, 4, 1) < base {
		t.Error("engagement decreased when comments increased")
	}
	if s.EngagementScore(5, 3, 2) < base {
		t.Error("engagement decreased when shares increased")
	}
}

func TestRelationshipScore(t *testing.T) {
	s := NewScorer(DefaultWeights())

	tests := []struct {
		name         string
		followed     bool
		interactions int
		want         float64
	}{
		{name: "followed author", followed: true, interactions: 0, want: 1.0},
		{name: "stranger floor", followed: false, interactions: 0, want: 0.1},
		{name: "some familiarity", followed: false, interactions: 3, want: 0.3},
		{name: "familiarity capped", followed: false, interactions: 50, want: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := testRankContext()
			if tt.followed {
				rc.Followed["author"] = true
			}
			rc.InteractionsByAuthor["author"] = tt.interactions

			got := s.RelationshipScore("author", rc)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RelationshipScore = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestTopicMatchScore(t *testing.T) {
	s := NewScorer(DefaultWeights())

	tests := []struct {
		name    string
		tags    []string
		content string
		want    float64
	}{
		{
			name:    "no tags falls back to default",
			tags:    nil,
			content: "saw a great movie yesterday",
			want:    0.3,
		},
		{
			name:    "single tag hit",
			tags:    []string{"hiking"},
			content: "went hiking with the youth group",
			want:    0.2,
		},
		{
			name:    "tag hit plus keyword bonus",
			tags:    []string{"hiking"},
			content: "hiking trip ended with prayer and worship",
			want:    0.2 + 0.2, // one tag hit + two keyword hits
		},
		{
			name:    "keyword bonus capped",
			tags:    []string{"music"},
			content: "prayer worship scripture bible gospel night of music",
			want:    0.2 + 0.3,
		},
		{
			name:    "tags but no overlap and no keywords",
			tags:    []string{"gardening"},
			content: "ran a marathon this weekend",
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := testRankContext(tt.tags...)
			got := s.TopicMatchScore(tt.content, rc)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TopicMatchScore = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestFreshnessScoreNonIncreasing(t *testing.T) {
	s := NewScorer(DefaultWeights())

	ages := []time.Duration{
		30 * time.Minute,
		3 * time.Hour,
		12 * time.Hour,
		48 * time.Hour,
		100 * time.Hour,
		200 * time.Hour,
		1000 * time.Hour,
	}
	want := []float64{1.0, 0.9, 0.7, 0.4, 0.2, 0.05, 0.05}

	prev := math.Inf(1)
	for i, age := range ages {
		got := s.FreshnessScore(age)
		if got != want[i] {
			t.Errorf("FreshnessScore(%v) = %f, want %f", age, got, want[i])
		}
		if got > prev {
			t.Errorf("freshness increased with age: %f after %f", got, prev)
		}
		prev = got
	}
}

func TestCompositeIsExactWeightedSum(t *testing.T) {
	s := NewScorer(DefaultWeights())
	rc := testRankContext()
	rc.Now = time.Now()

	blog := &models.Microblog{
		ID:           "b1",
		AuthorID:     "author",
		Content:      "plain update with nothing special",
		LikeCount:    7,
		CommentCount: 2,
		CreatedAt:    rc.Now.Add(-10 * time.Hour),
	}

	scored := s.ScoreMicroblog(blog, rc)
	b := scored.Breakdown

	composite := 0.4*b.Engagement + 0.3*b.Relationship + 0.2*b.TopicMatch + 0.1*b.Freshness
	want := composite * (1 + b.TrustBoost)
	if math.Abs(scored.Score-want) > 1e-9 {
		t.Errorf("Score = %f, want weighted sum %f", scored.Score, want)
	}
}

// Fixed scenario: no engagement, stranger author, user without tags,
// 200 hours old. Expected composite 0.095 with no trust boost.
func TestScoreMicroblogColdScenario(t *testing.T) {
	s := NewScorer(DefaultWeights())
	rc := testRankContext()

	blog := &models.Microblog{
		ID:        "cold",
		AuthorID:  "nobody",
		Content:   "a quiet thought about the weather",
		CreatedAt: rc.Now.Add(-200 * time.Hour),
	}

	scored := s.ScoreMicroblog(blog, rc)
	b := scored.Breakdown

	if b.Engagement != 0 {
		t.Errorf("Engagement = %f, want 0", b.Engagement)
	}
	if math.Abs(b.Relationship-0.1) > 1e-9 {
		t.Errorf("Relationship = %f, want 0.1", b.Relationship)
	}
	if math.Abs(b.TopicMatch-0.3) > 1e-9 {
		t.Errorf("TopicMatch = %f, want 0.3", b.TopicMatch)
	}
	if b.Freshness != 0.05 {
		t.Errorf("Freshness = %f, want 0.05", b.Freshness)
	}
	if b.TrustBoost != 0 {
		t.Errorf("TrustBoost = %f, want 0", b.TrustBoost)
	}
	if math.Abs(scored.Score-0.095) > 1e-9 {
		t.Errorf("Score = %f, want 0.095", scored.Score)
	}
}

func TestTrustBoost(t *testing.T) {
	s := NewScorer(DefaultWeights())

	tests := []struct {
		name string
		blog models.Microblog
		want float64
	}{
		{
			name: "nobody special",
			blog: models.Microblog{LikeCount: 3, CommentCount: 0},
			want: 0,
		},
		{
			name: "verified answerer",
			blog: models.Microblog{AuthorVerified: true},
			want: 0.3,
		},
		{
			name: "high engagement ratio",
			blog: models.Microblog{LikeCount: 10, CommentCount: 8},
			want: 0.2,
		},
		{
			name: "both capped at half",
			blog: models.Microblog{AuthorVerified: true, LikeCount: 10, CommentCount: 8},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.TrustBoost(&tt.blog); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TrustBoost = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDiversifyCapsPerAuthor(t *testing.T) {
	items := []models.ScoredMicroblog{
		{Microblog: models.Microblog{ID: "1", AuthorID: "a"}, Score: 0.9},
		{Microblog: models.Microblog{ID: "2", AuthorID: "a"}, Score: 0.8},
		{Microblog: models.Microblog{ID: "3", AuthorID: "a"}, Score: 0.7},
		{Microblog: models.Microblog{ID: "4", AuthorID: "b"}, Score: 0.6},
		{Microblog: models.Microblog{ID: "5", AuthorID: "a"}, Score: 0.5},
		{Microblog: models.Microblog{ID: "6", AuthorID: "c"}, Score: 0.4},
	}

	out := Diversify(items, 10)

	counts := make(map[string]int)
	for _, item := range out {
		counts[item.AuthorID]++
	}
	for author, n := range counts {
		if n > MaxPerAuthor {
			t.Errorf("author %s has %d items, want <= %d", author, n, MaxPerAuthor)
		}
	}
	if len(out) != 4 {
		t.Errorf("len(out) = %d, want 4", len(out))
	}
	// Greedy pass keeps the highest-scored survivors in order.
	if out[0].ID != "1" || out[1].ID != "2" || out[2].ID != "4" || out[3].ID != "6" {
		t.Errorf("unexpected survivor order: %v", []string{out[0].ID, out[1].ID, out[2].ID, out[3].ID})
	}
}

func TestDiversifyRespectsLimit(t *testing.T) {
	var items []models.ScoredMicroblog
	for i := 0; i < 50; i++ {
		items = append(items, models.ScoredMicroblog{
			Microblog: models.Microblog{ID: string(rune('a' + i)), AuthorID: string(rune('A' + i))},
			Score:     float64(50 - i),
		})
	}

	if out := Diversify(items, 7); len(out) != 7 {
		t.Errorf("len(out) = %d, want 7", len(out))
	}
}
