package readability_test

import (
	"strings"
	"testing"

	"github.com/harvestlabs/harvest"
	"github.com/harvestlabs/harvest/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func articlePage(body string) string {
	return `<!DOCTYPE html>
<html>
<head><title>Page Title</title></head>
<body>` + body + `</body>
</html>`
}

func TestExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	ext := readability.NewExtractor(nil)
	_, err := ext.Extract("", "https://example.com/blog/x", nil)

	require.Error(t, err)
	assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
}

func TestExtractor_ExtractsTitle(t *testing.T) {
	t.Parallel()

	html := articlePage(`<article><p>` + strings.Repeat("Plenty of article content here. ", 20) + `</p></article>`)

	ext := readability.NewExtractor(nil)
	item, err := ext.Extract(html, "https://example.com/blog/x", nil)

	require.NoError(t, err)
	assert.Equal(t, "Page Title", item.Title)
	assert.Equal(t, "https://example.com/blog/x", item.SourceURL)
}

func TestExtractor_RemovesNavigationAndFooter(t *testing.T) {
	t.Parallel()

	html := articlePage(`
<nav><a href="/home">Home Nav Link</a><a href="/about">About Nav Link</a></nav>
<article><p>` + strings.Repeat("This is the main article content that should be preserved. ", 10) + `</p></article>
<footer><p>Footer copyright text 2026</p></footer>`)

	ext := readability.NewExtractor(nil)
	item, err := ext.Extract(html, "https://example.com/blog/x", nil)

	require.NoError(t, err)
	assert.Contains(t, item.Content, "main article content")
	assert.NotContains(t, item.Content, "Home Nav Link")
	assert.NotContains(t, item.Content, "Footer copyright text")
}

func TestExtractor_RendersMarkdownThroughConverter(t *testing.T) {
	t.Parallel()

	html := articlePage(`<article>
<h2>Subheading Level Two</h2>
<p>` + strings.Repeat("Intro text with enough length to satisfy readability. ", 10) + `</p>
<ul><li>First item</li><li>Second item</li></ul>
</article>`)

	ext := readability.NewExtractor(markerConverter{})
	item, err := ext.Extract(html, "https://example.com/blog/x", nil)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(item.Content, "MD:"))
}

func TestExtractor_AppliesProfileDefaults(t *testing.T) {
	t.Parallel()

	html := articlePage(`<article><p>` + strings.Repeat("Enough content to extract cleanly. ", 15) + `</p></article>`)
	profile := &harvest.SiteProfile{
		DefaultAuthor: "Site Team",
		ContentType:   harvest.ContentTypeGuide,
	}

	ext := readability.NewExtractor(nil)
	item, err := ext.Extract(html, "https://example.com/topics/x", profile)

	require.NoError(t, err)
	assert.Equal(t, "Site Team", item.Author)
	assert.Equal(t, harvest.ContentTypeGuide, item.ContentType)
}

func TestExtractor_InfersContentTypeFromURL(t *testing.T) {
	t.Parallel()

	html := articlePage(`<article><p>` + strings.Repeat("Enough content to extract cleanly. ", 15) + `</p></article>`)

	ext := readability.NewExtractor(nil)
	item, err := ext.Extract(html, "https://example.com/blog/x", nil)

	require.NoError(t, err)
	assert.Equal(t, harvest.ContentTypeBlog, item.ContentType)
}

// markerConverter tags its output so tests can tell which path produced
// the content.
type markerConverter struct{}

func (markerConverter) Convert(html string) (string, error) {
	return "MD:" + html, nil
}
