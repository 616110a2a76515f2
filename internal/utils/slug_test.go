package utils

import (
	"strings"
	"testing"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name      string
		inputName string
		inputID   string
		want      string
	}{
		{
			name:      "simple name",
			inputName: "Young Adults",
			inputID:   "abc123def456",
			want:      "young-adults-abc123de",
		},
		{
			name:      "accented name",
			inputName: "Grupo de Oración",
			inputID:   "xyz789",
			want:      "grupo-de-oracion-xyz789",
		},
		{
			name:      "punctuation collapsed",
			inputName: "Faith & Family!!",
			inputID:   "11112222",
			want:      "faith-family-11112222",
		},
		{
			name:      "empty name",
			inputName: "",
			inputID:   "abc123",
			want:      "",
		},
		{
			name:      "empty id",
			inputName: "Worship",
			inputID:   "",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateSlug(tt.inputName, tt.inputID); got != tt.want {
				t.Errorf("GenerateSlug(%q, %q) = %q, want %q", tt.inputName, tt.inputID, got, tt.want)
			}
		})
	}
}

func TestGenerateSlugLongName(t *testing.T) {
	long := strings.Repeat("community ", 20)
	slug := GenerateSlug(long, "abcdefgh12345678")

	base := strings.TrimSuffix(slug, "-abcdefgh")
	if len(base) > MaxSlugBaseLength {
		t.Errorf("slug base length = %d, want <= %d", len(base), MaxSlugBaseLength)
	}
	if strings.HasSuffix(base, "-") {
		t.Errorf("slug base %q should not end with a hyphen", base)
	}
}
