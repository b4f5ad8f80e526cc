// Package utils provides common utility functions.
package utils

import (
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	// Matches spaces, underscores, and slashes (for replacement with dashes).
	wordSeparatorRe = regexp.MustCompile(`[\s_/]+`)
	// Matches non-alphanumeric characters (except dashes).
	nonAlphanumericRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-+`)
)

const (
	slugAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	slugSuffixLength = 6
)

// Slugify converts a title to a URL-safe lowercase-hyphenated form:
// trim and lowercase, replace separators with dashes, drop everything
// non-alphanumeric, collapse and trim dashes.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = wordSeparatorRe.ReplaceAllString(s, "-")
	s = nonAlphanumericRe.ReplaceAllString(s, "")
	s = multipleDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NewSlug derives an article slug from its title plus a fixed-width random
// base-36 suffix. Uniqueness is probabilistic: the suffix space is 36^6 per
// title and there is no collision retry; the unique index on the slug column
// surfaces the unlikely collision as a storage error.
func NewSlug(title string) (string, error) {
	suffix, err := gonanoid.Generate(slugAlphabet, slugSuffixLength)
	if err != nil {
		return "", err
	}
	base := Slugify(title)
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}
