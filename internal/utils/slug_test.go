package utils

import (
	"regexp"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "DRAGONS", "dragons"},
		{"spaces to dashes", "Hello World", "hello-world"},
		{"underscores to dashes", "hello_world", "hello-world"},
		{"already normalized", "hello-world", "hello-world"},

		{"trim whitespace", "  dragons  ", "dragons"},
		{"multiple spaces", "hello   world", "hello-world"},
		{"tabs and spaces", "hello\t world", "hello-world"},

		{"punctuation removal", "sci-fi/fantasy", "sci-fi-fantasy"},
		{"apostrophe removal", "don't panic", "dont-panic"},
		{"emoji removal", "🚀 Launch!", "launch"},

		{"multiple dashes", "hello--world", "hello-world"},
		{"leading dashes", "--dragons", "dragons"},
		{"trailing dashes", "dragons--", "dragons"},

		{"empty string", "", ""},
		{"only spaces", "   ", ""},
		{"only special chars", "!@#$%", ""},
		{"numbers allowed", "top10", "top10"},
		{"mixed case with numbers", "Top 10 Articles", "top-10-articles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewSlug(t *testing.T) {
	pattern := regexp.MustCompile(`^hello-world-[0-9a-z]{6}$`)

	slug, err := NewSlug("Hello World")
	if err != nil {
		t.Fatalf("NewSlug returned error: %v", err)
	}
	if !pattern.MatchString(slug) {
		t.Errorf("NewSlug(%q) = %q, want match for %q", "Hello World", slug, pattern)
	}
}

func TestNewSlugEmptyTitle(t *testing.T) {
	slug, err := NewSlug("!!!")
	if err != nil {
		t.Fatalf("NewSlug returned error: %v", err)
	}
	if len(slug) != 6 || strings.Contains(slug, "-") {
		t.Errorf("NewSlug(%q) = %q, want bare 6-char suffix", "!!!", slug)
	}
}

func TestNewSlugDistinctSuffixes(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		slug, err := NewSlug("Hello World")
		if err != nil {
			t.Fatalf("NewSlug returned error: %v", err)
		}
		if seen[slug] {
			t.Fatalf("duplicate slug %q after %d generations", slug, i)
		}
		seen[slug] = true
	}
}
