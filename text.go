package harvest

import (
	"regexp"
	"strings"
)

var (
	blankRunRE = regexp.MustCompile(`\n{3,}`)
	spaceRunRE = regexp.MustCompile(`[ \t]+`)
	lineEdgeRE = regexp.MustCompile(`[ \t]+\n|\n[ \t]+`)

	// Matches a trailing site marker like " - interviewing.io" or
	// " | nilmamano.com". Only domain-shaped suffixes are stripped so
	// ordinary hyphenated titles are left alone.
	siteSuffixRE = regexp.MustCompile(`(?i)\s+[|\x{2013}\x{2014}-]\s+[\w-]+(\.\w{2,})+\s*$`)
)

// NormalizeText collapses runs of spaces and tabs to a single space,
// runs of blank lines to at most one blank line, and trims both edges.
// All extractors run their body text through this before building an Item.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = lineEdgeRE.ReplaceAllString(s, "\n")
	s = spaceRunRE.ReplaceAllString(s, " ")
	s = blankRunRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// CleanTitle collapses whitespace in a raw title and strips a trailing
// "| example.com" style site marker.
func CleanTitle(title string) string {
	title = strings.TrimSpace(spaceRunRE.ReplaceAllString(strings.ReplaceAll(title, "\n", " "), " "))
	if stripped := strings.TrimSpace(siteSuffixRE.ReplaceAllString(title, "")); len(stripped) >= MinTitleLength {
		title = stripped
	}
	return title
}

// TruncateRunes returns at most n runes of s. Used for fingerprint
// prefixes so multi-byte characters are never split.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
