// Package trafilatura provides an extraction engine built on
// go-trafilatura, with its own boilerplate-removal heuristics and
// metadata detection.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/harvestlabs/harvest"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements harvest.Extractor at compile time.
var _ harvest.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main article from HTML.
type Extractor struct {
	converter harvest.Converter
}

// NewExtractor creates an Extractor rendering content with the given
// converter. A nil converter yields trafilatura's plain text output.
func NewExtractor(converter harvest.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Extract processes an article page and returns the main content.
func (e *Extractor) Extract(rawHTML string, pageURL string, profile *harvest.SiteProfile) (*harvest.Item, error) {
	if rawHTML == "" {
		return nil, harvest.Errorf(harvest.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}
	if u, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "trafilatura found no content at %s: %v", pageURL, err)
	}

	content := result.ContentText
	if e.converter != nil && result.ContentNode != nil {
		if contentHTML, err := renderNode(result.ContentNode); err == nil {
			if md, err := e.converter.Convert(contentHTML); err == nil {
				content = md
			}
		}
	}
	content = harvest.NormalizeText(content)
	if content == "" {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "no usable content at %s", pageURL)
	}

	title := harvest.CleanTitle(result.Metadata.Title)
	if title == "" {
		title = harvest.UntitledTitle
	}

	author := strings.TrimSpace(result.Metadata.Author)
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

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
