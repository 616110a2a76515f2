package recommend

import "github.com/the-connection/app-connection-api/internal/models"

// MaxPerAuthor caps how many items a single author can place in one
// feed, so one prolific poster cannot flood it.
const MaxPerAuthor = 2

// Diversify walks the score-sorted list and keeps at most MaxPerAuthor
// items per author, stopping at limit. A simple greedy cap, kept
// deliberately: output stays deterministic and testable, unlike
// marginal-relevance re-ranking.
func Diversify(sorted []models.ScoredMicroblog, limit int) []models.ScoredMicroblog {
	out := make([]models.ScoredMicroblog, 0, limit)
	perAuthor := make(map[string]int)

	for _, item := range sorted {
		if len(out) >= limit {
			break
		}
		if perAuthor[item.AuthorID] >= MaxPerAuthor {
			continue
		}
		perAuthor[item.AuthorID]++
		out = append(out, item)
	}
	return out
}
