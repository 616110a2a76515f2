package utils

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already plain", input: "worship", want: "worship"},
		{name: "uppercase", input: "Scripture", want: "scripture"},
		{name: "diacritics", input: "Oración", want: "oracion"},
		{name: "mixed", input: "Adoração e Louvor", want: "adoracao e louvor"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContainsNormalized(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     bool
	}{
		{name: "case-insensitive hit", haystack: "Morning Worship at dawn", needle: "worship", want: true},
		{name: "accent-folded hit", haystack: "grupo de oración semanal", needle: "Oracion", want: true},
		{name: "miss", haystack: "community picnic", needle: "liturgy", want: false},
		{name: "empty needle never matches", haystack: "anything", needle: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsNormalized(tt.haystack, tt.needle); got != tt.want {
				t.Errorf("ContainsNormalized(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
			}
		})
	}
}
