// Package quality estimates how article-like a body of content is.
// Scores feed an inclusion threshold and are recorded as item metadata;
// they never reorder output.
package quality

import (
	"strings"
	"unicode/utf8"

	"github.com/harvestlabs/harvest"
)

// Scoring weights. Length dominates because boilerplate pages are mostly
// told apart by how little real text survives extraction.
const (
	lengthWeight    = 0.5
	structureWeight = 0.3
	keywordWeight   = 0.2

	// Content length in runes considered ideal for an article.
	idealMinLength = 500
	idealMaxLength = 5000
)

// techKeywords signal engineering-oriented writing. Matching is
// case-insensitive on whole words.
var techKeywords = []string{
	"algorithm", "complexity", "interview", "coding", "engineer",
	"system", "design", "database", "api", "function", "performance",
	"scalability", "architecture", "debugging", "testing", "deployment",
	"optimization", "recursion", "runtime", "compiler",
}

// Ensure Scorer implements harvest.Scorer at compile time.
var _ harvest.Scorer = (*Scorer)(nil)

// Scorer is a deterministic, pure content scorer. The zero value is
// ready to use.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score rates content in [0, 1]. The empty string scores 0. Equal inputs
// always produce equal scores.
func (s *Scorer) Score(content string) float64 {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0
	}

	score := lengthWeight*lengthScore(content) +
		structureWeight*structureScore(content) +
		keywordWeight*keywordScore(content)

	return clamp(score)
}

// lengthScore peaks for content in the ideal article range and tapers on
// both sides. Very long pages are usually concatenated listings, not
// articles, so they taper too, though gently.
func lengthScore(content string) float64 {
	n := utf8.RuneCountInString(content)
	switch {
	case n < idealMinLength:
		return float64(n) / float64(idealMinLength)
	case n <= idealMaxLength:
		return 1
	default:
		taper := float64(idealMaxLength) / float64(n)
		return max(taper, 0.5)
	}
}

// structureScore rewards markdown structure surviving into the body:
// headings, lists, code fences and paragraph breaks.
func structureScore(content string) float64 {
	var score float64
	lines := strings.Split(content, "\n")

	var headings, listItems int
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"):
			headings++
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			listItems++
		}
	}

	if headings > 0 {
		score += 0.3
	}
	if headings > 2 {
		score += 0.1
	}
	if listItems > 0 {
		score += 0.2
	}
	if strings.Contains(content, "```") {
		score += 0.2
	}
	if strings.Contains(content, "\n\n") {
		score += 0.2
	}
	return clamp(score)
}

// keywordScore measures tech keyword density, capped so keyword stuffing
// cannot dominate.
func keywordScore(content string) float64 {
	words := strings.Fields(strings.ToLower(content))
	if len(words) == 0 {
		return 0
	}

	keywords := make(map[string]bool, len(techKeywords))
	for _, kw := range techKeywords {
		keywords[kw] = true
	}

	var hits int
	for _, word := range words {
		word = strings.Trim(word, ".,;:!?()[]{}\"'`*#")
		if keywords[word] {
			hits++
		}
	}

	density := float64(hits) / float64(len(words))
	return clamp(density * 50)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
