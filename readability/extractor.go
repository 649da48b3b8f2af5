// Package readability provides an extraction engine built on
// go-readability. It serves as an alternative to selector-driven
// extraction for pages whose markup defeats the profile selectors.
package readability

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/harvestlabs/harvest"
)

// Ensure Extractor implements harvest.Extractor at compile time.
var _ harvest.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article from HTML.
type Extractor struct {
	converter harvest.Converter
}

// NewExtractor creates an Extractor rendering content with the given
// converter. A nil converter yields the article's plain text.
func NewExtractor(converter harvest.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Extract processes an article page and returns the main content.
func (e *Extractor) Extract(html string, pageURL string, profile *harvest.SiteProfile) (*harvest.Item, error) {
	if html == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	pageU, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(html), pageU)
	if err != nil {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "readability found no content at %s: %v", pageURL, err)
	}

	content := article.TextContent
	if e.converter != nil && article.Content != "" {
		if md, err := e.converter.Convert(article.Content); err == nil {
			content = md
		}
	}
	content = harvest.NormalizeText(content)
	if content == "" {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "no usable content at %s", pageURL)
	}

	title := harvest.CleanTitle(article.Title)
	if title == "" {
		title = harvest.UntitledTitle
	}

	author := strings.TrimSpace(article.Byline)
	contentType := harvest.InferContentType(pageURL)
	if profile != nil {
		if author == "" {
			author = profile.DefaultAuthor
		}
		if profile.ContentType != "" {
			contentType = profile.ContentType
		}
	}

	return &harvest.Item{
		Title:       title,
		Content:     content,
		Author:      author,
		SourceURL:   pageURL,
		ContentType: contentType,
	}, nil
}
