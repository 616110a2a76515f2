package recommend

import (
	"math"
	"strings"
	"time"

	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/utils"
)

// RankContext is everything about the requesting user the scorer
// needs: a read-only snapshot assembled once per ranking call.
type RankContext struct {
	Profile              *models.UserProfile
	Followed             map[string]bool
	InteractionsByAuthor map[string]int
	Now                  time.Time
}

// Scorer computes relevance scores for feed candidates. It is a pure
// function of its inputs; safe for concurrent use.
type Scorer struct {
	w Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{w: w}
}

// EngagementScore compresses weighted interaction counters into [0,1].
// Log compression keeps viral outliers from dominating the feed.
func (s *Scorer) EngagementScore(likes, comments, shares int) float64 {
	raw := s.w.Engagement.Like*float64(likes) +
		s.w.Engagement.Comment*float64(comments) +
		s.w.Engagement.Share*float64(shares)
	return clamp(math.Log10(raw+1)/2, 0, 1)
}

// RelationshipScore encodes familiarity with the author without a full
// social graph: followed authors max out, recurring interaction
// partners scale up from the stranger floor.
func (s *Scorer) RelationshipScore(authorID string, rc *RankContext) float64 {
	if rc.Followed[authorID] {
		return 1.0
	}
	n := rc.InteractionsByAuthor[authorID]
	if n <= 0 {
		return s.w.StrangerFloor
	}
	return math.Min(s.w.FamiliarityStep*float64(n), s.w.FamiliarityCap)
}

// TopicMatchScore measures textual overlap between content and the
// user's tags, plus a bonus for domain keyword hits. Falls back to a
// neutral default when nothing is known about the user's interests.
func (s *Scorer) TopicMatchScore(content string, rc *RankContext) float64 {
	tags := rc.Profile.Tags()
	if len(tags) == 0 {
		return s.w.TopicDefault
	}

	var tagScore float64
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		key := utils.NormalizeText(tag)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if utils.ContainsNormalized(content, tag) {
			tagScore += s.w.TagHit
		}
	}
	tagScore = math.Min(tagScore, s.w.TagCap)

	var bonus float64
	normalized := utils.NormalizeText(content)
	for _, kw := range domainKeywords {
		if strings.Contains(normalized, kw) {
			bonus += s.w.KeywordHit
		}
	}
	bonus = math.Min(bonus, s.w.KeywordCap)

	return math.Min(tagScore+bonus, 1.0)
}

// FreshnessScore is a deliberately coarse step decay over content age.
// Favors recency without continuous-decay complexity.
func (s *Scorer) FreshnessScore(age time.Duration) float64 {
	hours := age.Hours()
	switch {
	case hours < 1:
		return 1.0
	case hours < 6:
		return 0.9
	case hours < 24:
		return 0.7
	case hours < 72:
		return 0.4
	case hours < 168:
		return 0.2
	default:
		return 0.05
	}
}

// TrustBoost rewards verified answerers and authors whose posts draw
// real discussion. Applied multiplicatively on top of the composite.
func (s *Scorer) TrustBoost(blog *models.Microblog) float64 {
	var boost float64
	if blog.AuthorVerified {
		boost += s.w.VerifiedBoost
	}
	// High engagement ratio: enough activity, and a healthy share of
	// it is comments rather than drive-by likes.
	total := blog.LikeCount + blog.CommentCount
	if total >= 10 && blog.CommentCount*2 >= blog.LikeCount {
		boost += s.w.RatioBoost
	}
	return math.Min(boost, s.w.MaxTrustBoost)
}

// ScoreMicroblog computes the full breakdown and final score for one
// candidate.
func (s *Scorer) ScoreMicroblog(blog *models.Microblog, rc *RankContext) models.ScoredMicroblog {
	breakdown := models.ScoreBreakdown{
		Engagement:   s.EngagementScore(blog.LikeCount, blog.CommentCount, blog.ShareCount),
		Relationship: s.RelationshipScore(blog.AuthorID, rc),
		TopicMatch:   s.TopicMatchScore(blog.Content, rc),
		Freshness:    s.FreshnessScore(rc.Now.Sub(blog.CreatedAt)),
		TrustBoost:   s.TrustBoost(blog),
	}

	composite := s.w.Content.Engagement*breakdown.Engagement +
		s.w.Content.Relationship*breakdown.Relationship +
		s.w.Content.TopicMatch*breakdown.TopicMatch +
		s.w.Content.Freshness*breakdown.Freshness

	return models.ScoredMicroblog{
		Microblog: *blog,
		Score:     composite * (1 + breakdown.TrustBoost),
		Breakdown: breakdown,
		Reason:    microblogReason(blog, rc, breakdown),
	}
}

// ScoreCommunity scores a community suggestion with the analogous
// weighted sum: log member count as engagement proxy, tag overlap as
// similarity.
func (s *Scorer) ScoreCommunity(community *models.Community, rc *RankContext) models.ScoredCommunity {
	sizeScore := clamp(math.Log10(float64(community.MemberCount)+1)/4, 0, 1)
	overlap := s.tagOverlapScore(community.InterestTags, rc)
	freshness := s.FreshnessScore(rc.Now.Sub(community.CreatedAt))

	breakdown := models.ScoreBreakdown{
		Engagement: sizeScore,
		TopicMatch: overlap,
		Freshness:  freshness,
	}

	return models.ScoredCommunity{
		Community: *community,
		Score: s.w.Community.Size*sizeScore +
			s.w.Community.TagOverlap*overlap +
			s.w.Community.Freshness*freshness,
		Breakdown: breakdown,
		Reason:    communityReason(community, breakdown),
	}
}

func (s *Scorer) tagOverlapScore(communityTags []string, rc *RankContext) float64 {
	userTags := rc.Profile.Tags()
	if len(userTags) == 0 {
		return s.w.TopicDefault
	}

	normalized := make(map[string]bool, len(userTags))
	for _, t := range userTags {
		normalized[utils.NormalizeText(t)] = true
	}

	var score float64
	for _, t := range communityTags {
		if normalized[utils.NormalizeText(t)] {
			score += s.w.TagHit
		}
	}
	return math.Min(score, 1.0)
}

func microblogReason(blog *models.Microblog, rc *RankContext, b models.ScoreBreakdown) string {
	var parts []string
	switch {
	case rc.Followed[blog.AuthorID]:
		parts = append(parts, "from someone you follow")
	case rc.InteractionsByAuthor[blog.AuthorID] > 0:
		parts = append(parts, "from an author you interact with")
	}
	if b.TopicMatch >= 0.4 {
		parts = append(parts, "matches your interests")
	}
	if b.Engagement >= 0.5 {
		parts = append(parts, "active conversation")
	}
	if b.Freshness >= 0.9 {
		parts = append(parts, "posted recently")
	}
	if blog.AuthorVerified {
		parts = append(parts, "verified answerer")
	}
	if len(parts) == 0 {
		return "suggested for you"
	}
	return strings.Join(parts, ", ")
}

func communityReason(c *models.Community, b models.ScoreBreakdown) string {
	var parts []string
	if b.TopicMatch >= 0.4 {
		parts = append(parts, "shares your interests")
	}
	if b.Engagement >= 0.5 {
		parts = append(parts, "active community")
	}
	if b.Freshness >= 0.4 {
		parts = append(parts, "recently started")
	}
	if len(parts) == 0 {
		return "community you might like"
	}
	return strings.Join(parts, ", ")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
