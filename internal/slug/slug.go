// Package slug derives URL-safe identifiers from post and category titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// stripPattern removes everything that is not a lowercase letter,
	// digit, space, or hyphen.
	stripPattern = regexp.MustCompile(`[^a-z0-9 -]+`)
	// hyphenRuns collapses repeated hyphens left over after replacement.
	hyphenRuns = regexp.MustCompile(`-+`)
)

// Make converts a title into a slug: lowercased, punctuation stripped,
// spaces replaced with hyphens.
// Example: "Cats are great!" → "cats-are-great"
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = stripPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
