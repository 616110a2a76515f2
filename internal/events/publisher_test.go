package events

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "short string untouched", input: "a morning prayer", max: 140, want: "a morning prayer"},
		{name: "exact length untouched", input: "abc", max: 3, want: "abc"},
		{name: "ascii truncated", input: "abcdef", max: 4, want: "abcd"},
		{name: "multi-byte runes counted, not bytes", input: "café au lait", max: 4, want: "café"},
		{name: "cjk truncated on rune boundary", input: "祈りの時間です", max: 3, want: "祈りの"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.input, tt.max)
			}
		})
	}
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	// 141 two-byte runes, so a byte-based cut would land mid-rune.
	input := strings.Repeat("é", 141)
	got := truncate(input, snippetRunes)
	if !utf8.ValidString(got) {
		t.Fatal("snippet contains a split rune")
	}
	if n := utf8.RuneCountInString(got); n != snippetRunes {
		t.Errorf("snippet rune count = %d, want %d", n, snippetRunes)
	}
	if strings.ContainsRune(got, utf8.RuneError) {
		t.Error("snippet contains the replacement character")
	}
}
