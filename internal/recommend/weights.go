package recommend

// EngagementWeights weight the raw interaction counters of a post
// before log compression. Comments and shares signal more effort than
// likes.
type EngagementWeights struct {
	Like    float64
	Comment float64
	Share   float64
}

// ContentWeights combine the sub-scores of a microblog into the
// composite score. They sum to 1.
type ContentWeights struct {
	Engagement   float64
	Relationship float64
	TopicMatch   float64
	Freshness    float64
}

// CommunityWeights combine the sub-scores of a community suggestion.
// Membership size stands in for engagement, tag overlap for similarity.
type CommunityWeights struct {
	Size       float64
	TagOverlap float64
	Freshness  float64
}

// Weights is the immutable scoring configuration. Construct once with
// DefaultWeights and pass by value; the scorer never mutates it.
type Weights struct {
	Engagement EngagementWeights
	Content    ContentWeights
	Community  CommunityWeights

	// TagHit is added per user-tag containment hit, capped at TagCap.
	TagHit float64
	TagCap float64
	// KeywordHit is added per domain-keyword hit, capped at KeywordCap.
	KeywordHit float64
	KeywordCap float64
	// TopicDefault is used when the user has no tags at all.
	TopicDefault float64

	// StrangerFloor is the relationship score for unknown authors;
	// FamiliarityStep scales prior interactions with an author, capped
	// at FamiliarityCap.
	StrangerFloor   float64
	FamiliarityStep float64
	FamiliarityCap  float64

	// VerifiedBoost applies to verified answerers, RatioBoost to
	// authors whose posts draw discussion; their sum is capped at
	// MaxTrustBoost.
	VerifiedBoost float64
	RatioBoost    float64
	MaxTrustBoost float64
}

// DefaultWeights returns the production scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		Engagement: EngagementWeights{Like: 1, Comment: 3, Share: 5},
		Content:    ContentWeights{Engagement: 0.4, Relationship: 0.3, TopicMatch: 0.2, Freshness: 0.1},
		Community:  CommunityWeights{Size: 0.4, TagOverlap: 0.4, Freshness: 0.2},

		TagHit:       0.2,
		TagCap:       0.7,
		KeywordHit:   0.1,
		KeywordCap:   0.3,
		TopicDefault: 0.3,

		StrangerFloor:   0.1,
		FamiliarityStep: 0.1,
		FamiliarityCap:  0.7,

		VerifiedBoost: 0.3,
		RatioBoost:    0.2,
		MaxTrustBoost: 0.5,
	}
}

// domainKeywords earn a topic bonus even when they are not among the
// user's tags: content about the life of the community is assumed to
// be broadly relevant to the audience.
var domainKeywords = []string{
	"prayer", "worship", "scripture", "bible", "faith",
	"church", "ministry", "fellowship", "gospel", "grace",
	"testimony", "devotional",
}
