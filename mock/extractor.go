package mock

import "github.com/harvestlabs/harvest"

var _ harvest.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of harvest.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string, profile *harvest.SiteProfile) (*harvest.Item, error)
}

func (e *Extractor) Extract(html string, pageURL string, profile *harvest.SiteProfile) (*harvest.Item, error) {
	return e.ExtractFn(html, pageURL, profile)
}

var _ harvest.Converter = (*Converter)(nil)

// Converter is a mock implementation of harvest.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ harvest.Scorer = (*Scorer)(nil)

// Scorer is a mock implementation of harvest.Scorer.
type Scorer struct {
	ScoreFn func(content string) float64
}

func (s *Scorer) Score(content string) float64 {
	if s.ScoreFn == nil {
		return 1
	}
	return s.ScoreFn(content)
}

var _ harvest.ChapterSource = (*ChapterSource)(nil)

// ChapterSource is a mock implementation of harvest.ChapterSource.
type ChapterSource struct {
	ChaptersFn func() []*harvest.Item
}

func (c *ChapterSource) Chapters() []*harvest.Item {
	return c.ChaptersFn()
}

var _ harvest.ProfileResolver = (*ProfileResolver)(nil)

// ProfileResolver is a mock implementation of harvest.ProfileResolver.
type ProfileResolver struct {
	ProfileForFn func(rawURL string) *harvest.SiteProfile
}

func (r *ProfileResolver) ProfileFor(rawURL string) *harvest.SiteProfile {
	return r.ProfileForFn(rawURL)
}
