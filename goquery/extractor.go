package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/harvestlabs/harvest"
)

// defaultTitleSelectors are tried in order after the profile's own.
var defaultTitleSelectors = []string{
	"h1.post-title",
	"h1.entry-title",
	"h1.article-title",
	".title h1",
	"h1",
	".post-title",
	".entry-title",
}

// defaultAuthorSelectors are tried in order after the profile's own.
// Byline text longer than maxAuthorLength is assumed to be a false match.
var defaultAuthorSelectors = []string{
	".author-name",
	".author",
	".byline",
	"[rel=\"author\"]",
	".post-author",
	".entry-author",
}

// defaultContentSelectors locate the article body container.
var defaultContentSelectors = []string{
	".post-content",
	".entry-content",
	".article-content",
	".content",
	"main article",
	"article",
	".post-body",
	".entry-body",
	"main",
}

// defaultStripSelectors remove chrome before any text is measured.
var defaultStripSelectors = []string{
	"script", "style", "noscript", "iframe", "form", "svg",
	"nav", "footer", "header", "aside",
	".sidebar", ".navigation", ".menu", ".comments", ".comment",
	".share", ".social", ".related", ".advertisement", ".ads",
	".subscribe", ".newsletter",
}

const (
	maxAuthorLength = 100

	// contentMinChars is the text length a container must carry to be
	// picked on the first pass. The second pass relaxes it before the
	// whole body becomes the last resort.
	contentMinChars        = 200
	contentRelaxedMinChars = 100
)

// Ensure Extractor implements harvest.Extractor at compile time.
var _ harvest.Extractor = (*Extractor)(nil)

// Extractor extracts articles from HTML using ordered CSS selector chains:
// the profile's selectors first, then generic fallbacks. The selected
// body container is rendered through Converter so document structure
// survives into the item content.
type Extractor struct {
	converter harvest.Converter

	// Fallback, when set, is consulted after the selector chains find no
	// usable body. Typically a readability or trafilatura engine.
	Fallback harvest.Extractor
}

// NewExtractor creates an Extractor rendering content with the given
// converter.
func NewExtractor(converter harvest.Converter) *Extractor {
	return &Extractor{converter: converter}
}

// Extract pulls title, author and body out of an article page. It returns
// an ENOTFOUND-coded error when the page yields no usable content, which
// callers treat as a skip rather than a failure.
func (e *Extractor) Extract(html string, pageURL string, profile *harvest.SiteProfile) (*harvest.Item, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}

	e.strip(doc, profile)

	title := e.extractTitle(doc, profile)
	author := e.extractAuthor(doc, profile)

	content, err := e.extractContent(doc, profile)
	if err != nil || content == "" {
		if e.Fallback != nil {
			return e.Fallback.Extract(html, pageURL, profile)
		}
		if err != nil {
			return nil, err
		}
		return nil, harvest.Errorf(harvest.ENOTFOUND, "no usable content at %s", pageURL)
	}

	item := &harvest.Item{
		Title:       title,
		Content:     content,
		Author:      author,
		SourceURL:   pageURL,
		ContentType: e.contentType(pageURL, profile),
	}
	return item, nil
}

// strip removes non-article chrome in place.
func (e *Extractor) strip(doc *goquery.Document, profile *harvest.SiteProfile) {
	selectors := defaultStripSelectors
	if profile != nil && len(profile.StripSelectors) > 0 {
		selectors = append(profile.StripSelectors, defaultStripSelectors...)
	}
	for _, selector := range selectors {
		doc.Find(selector).Remove()
	}
}

// extractTitle walks the title selector chain and falls back to the
// document <title>, then to UntitledTitle.
func (e *Extractor) extractTitle(doc *goquery.Document, profile *harvest.SiteProfile) string {
	selectors := defaultTitleSelectors
	if profile != nil && len(profile.TitleSelectors) > 0 {
		selectors = append(profile.TitleSelectors, defaultTitleSelectors...)
	}

	for _, selector := range selectors {
		if title := usableTitle(doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	if title := usableTitle(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return harvest.UntitledTitle
}

// usableTitle cleans a candidate and discards ones outside the accepted
// length bounds.
func usableTitle(raw string) string {
	title := harvest.CleanTitle(raw)
	n := utf8.RuneCountInString(title)
	if n <= harvest.MinTitleLength || n > harvest.MaxTitleLength {
		return ""
	}
	return title
}

// extractAuthor walks the author selector chain, checking meta tags last,
// and falls back to the profile's default author.
func (e *Extractor) extractAuthor(doc *goquery.Document, profile *harvest.SiteProfile) string {
	selectors := defaultAuthorSelectors
	if profile != nil && len(profile.AuthorSelectors) > 0 {
		selectors = append(profile.AuthorSelectors, defaultAuthorSelectors...)
	}

	for _, selector := range selectors {
		author := strings.TrimSpace(doc.Find(selector).First().Text())
		author = strings.TrimPrefix(author, "By ")
		author = strings.TrimPrefix(author, "by ")
		if author != "" && utf8.RuneCountInString(author) < maxAuthorLength {
			return author
		}
	}

	if author, ok := doc.Find(`meta[name="author"]`).First().Attr("content"); ok {
		author = strings.TrimSpace(author)
		if author != "" && utf8.RuneCountInString(author) < maxAuthorLength {
			return author
		}
	}

	if profile != nil {
		return profile.DefaultAuthor
	}
	return ""
}

// extractContent finds the best body container, renders it through the
// converter and normalizes whitespace. Selection is two-pass: containers
// holding substantial text win, then the threshold is relaxed, and the
// whole body is the last resort.
func (e *Extractor) extractContent(doc *goquery.Document, profile *harvest.SiteProfile) (string, error) {
	selectors := defaultContentSelectors
	if profile != nil && len(profile.ContentSelectors) > 0 {
		selectors = append(profile.ContentSelectors, defaultContentSelectors...)
	}

	for _, minChars := range []int{contentMinChars, contentRelaxedMinChars} {
		for _, selector := range selectors {
			sel := doc.Find(selector).First()
			if sel.Length() == 0 {
				continue
			}
			if utf8.RuneCountInString(strings.TrimSpace(sel.Text())) < minChars {
				continue
			}
			return e.render(sel)
		}
	}

	body := doc.Find("body").First()
	if body.Length() == 0 || strings.TrimSpace(body.Text()) == "" {
		return "", nil
	}
	return e.render(body)
}

// render converts the selection's inner HTML to text.
func (e *Extractor) render(sel *goquery.Selection) (string, error) {
	if e.converter == nil {
		return harvest.NormalizeText(sel.Text()), nil
	}
	inner, err := sel.Html()
	if err != nil {
		return "", harvest.Errorf(harvest.EINTERNAL, "rendering selection: %v", err)
	}
	text, err := e.converter.Convert(inner)
	if err != nil {
		// Converter failures degrade to plain text rather than losing
		// the article.
		return harvest.NormalizeText(sel.Text()), nil
	}
	return harvest.NormalizeText(text), nil
}

func (e *Extractor) contentType(pageURL string, profile *harvest.SiteProfile) harvest.ContentType {
	if profile != nil && profile.ContentType != "" {
		return profile.ContentType
	}
	return harvest.InferContentType(pageURL)
}
