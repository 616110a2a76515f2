package models

// ScoreBreakdown exposes the sub-scores behind a recommendation so the
// client (and the curious) can see why an item ranked where it did.
// Computed fresh on every ranking request; never persisted.
type ScoreBreakdown struct {
	Engagement   float64 `json:"engagement"`
	Relationship float64 `json:"relationship"`
	TopicMatch   float64 `json:"topic_match"`
	Freshness    float64 `json:"freshness"`
	TrustBoost   float64 `json:"trust_boost"`
}

// ScoredMicroblog is a candidate microblog with its final score.
type ScoredMicroblog struct {
	Microblog
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"score_breakdown"`
	Reason    string         `json:"reason"`
}

// ScoredCommunity is a candidate community with its final score.
type ScoredCommunity struct {
	Community
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"score_breakdown"`
	Reason    string         `json:"reason"`
}

// FeedData is the payload of a feed response.
type FeedData struct {
	Microblogs  []ScoredMicroblog `json:"microblogs"`
	Communities []ScoredCommunity `json:"communities"`
}
