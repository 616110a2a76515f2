package utils

import (
	"regexp"
	"strings"
)

const (
	MaxSlugBaseLength = 50
	ShortIDLength     = 8
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug builds a URL-friendly slug for a community.
// Format: {kebab-case-name}-{short-id}
// Example: "Young Adults Bible Study" + "abc123def456" -> "young-adults-bible-study-abc123de"
func GenerateSlug(name, id string) string {
	if name == "" || id == "" {
		return ""
	}

	slug := normalizeToSlug(name)
	shortID := truncateID(id)

	if slug == "" {
		return shortID
	}

	return slug + "-" + shortID
}

func normalizeToSlug(text string) string {
	slug := nonSlugChars.ReplaceAllString(NormalizeText(text), "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxSlugBaseLength {
		slug = slug[:MaxSlugBaseLength]
		if lastHyphen := strings.LastIndex(slug, "-"); lastHyphen > 0 {
			slug = slug[:lastHyphen]
		}
	}

	return slug
}

func truncateID(id string) string {
	if len(id) > ShortIDLength {
		return id[:ShortIDLength]
	}
	return id
}
