package harvest

// Extractor extracts an Item from an article page.
//
// Extraction failure is an expected, frequent outcome, not a programming
// error: when no usable title or body can be found the implementation
// returns an ENOTFOUND-coded error and the caller logs and moves on.
type Extractor interface {
	Extract(html string, pageURL string, profile *SiteProfile) (*Item, error)
}

// Converter renders content HTML as text. Implementations produce
// markdown so headings, lists and code fences survive into the body and
// remain visible to the quality scorer.
type Converter interface {
	Convert(html string) (string, error)
}
