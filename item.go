package harvest

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// ContentType classifies a scraped item.
type ContentType string

// Content type values used in the output schema.
const (
	ContentTypeBlog           ContentType = "blog"
	ContentTypeGuide          ContentType = "guide"
	ContentTypeInterviewGuide ContentType = "interview_guide"
	ContentTypeBook           ContentType = "book"
	ContentTypeOther          ContentType = "other"
)

// Title length bounds accepted during extraction.
const (
	MinTitleLength = 3
	MaxTitleLength = 300
)

// DefaultMinContentLength is the content length below which an item is
// considered invalid. Sites vary a lot in article length so this is
// configurable in the 100-200 range; the default sits in the middle.
const DefaultMinContentLength = 150

// UntitledTitle is the fallback title when extraction finds none.
const UntitledTitle = "Untitled"

// Item represents one extracted page. An Item is created once per
// successfully fetched and parsed page and is not mutated afterwards,
// except for an explicit post-hoc author override by a site scraper.
type Item struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Author      string         `json:"author"`
	SourceURL   string         `json:"source_url"`
	ContentType ContentType    `json:"content_type"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Validate returns an error if the item would not survive the output
// validity filter. An item is valid iff both title and content are
// non-empty and the content meets the minimum length, counted in runes
// to match the extraction thresholds. minContent <= 0 selects
// DefaultMinContentLength.
func (i *Item) Validate(minContent int) error {
	if minContent <= 0 {
		minContent = DefaultMinContentLength
	}
	if strings.TrimSpace(i.Title) == "" {
		return Errorf(EINVALID, "item title required")
	}
	if strings.TrimSpace(i.Content) == "" {
		return Errorf(EINVALID, "item content required")
	}
	if utf8.RuneCountInString(strings.TrimSpace(i.Content)) < minContent {
		return Errorf(EINVALID, "item content below minimum length %d", minContent)
	}
	return nil
}

// WordCount returns the number of whitespace-separated words in the content.
func (i *Item) WordCount() int {
	return len(strings.Fields(i.Content))
}

// SetMeta records a metadata value, allocating the map on first use.
func (i *Item) SetMeta(key string, value any) {
	if i.Metadata == nil {
		i.Metadata = make(map[string]any)
	}
	i.Metadata[key] = value
}

// InferContentType guesses a content type from URL shape. It is used when
// the site profile does not set one explicitly. Only the path is
// considered so host names like interviewing.io never skew the guess.
func InferContentType(rawURL string) ContentType {
	lower := strings.ToLower(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		lower = strings.ToLower(u.Path)
	}
	switch {
	case strings.Contains(lower, "interview") && strings.Contains(lower, "guide"):
		return ContentTypeInterviewGuide
	case strings.Contains(lower, "/learn/") || strings.Contains(lower, "interview-guide"):
		return ContentTypeInterviewGuide
	case strings.Contains(lower, "guide") || strings.Contains(lower, "/topics/") || strings.Contains(lower, "/companies/"):
		return ContentTypeGuide
	case strings.Contains(lower, "/blog/") || strings.Contains(lower, "/p/") || strings.Contains(lower, "/post/"):
		return ContentTypeBlog
	default:
		return ContentTypeBlog
	}
}
