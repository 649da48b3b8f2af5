package harvest

// Scorer estimates how article-like a body of content is.
//
// Score is deterministic and pure: the same input always yields the same
// value in [0, 1], the empty string scores 0, and no I/O happens. Scores
// are used as an inclusion threshold and recorded as item metadata.
type Scorer interface {
	Score(content string) float64
}

// ChapterSource supplies static book chapters that are merged into the
// scraped batch and subject to the same validity and dedup rules. Real
// PDF extraction is out of scope; anything implementing this contract
// can stand in for it.
type ChapterSource interface {
	Chapters() []*Item
}
