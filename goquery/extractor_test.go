package goquery_test

import (
	"strings"
	"testing"

	"github.com/harvestlabs/harvest"
	harvestgoquery "github.com/harvestlabs/harvest/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upperConverter marks converted content so tests can tell which path
// produced the body.
type upperConverter struct{}

func (upperConverter) Convert(html string) (string, error) {
	return "CONVERTED:" + html, nil
}

var articleHTML = `<!DOCTYPE html>
<html>
<head><title>Binary Search Explained | example.com</title></head>
<body>
  <nav><a href="/">Home</a> lots of navigation chrome</nav>
  <article>
    <h1 class="post-title">Binary Search Explained</h1>
    <div class="byline">By Ada Lovelace</div>
    <div class="post-content">
      <p>` + strings.Repeat("Binary search halves the interval. ", 12) + `</p>
      <p>It runs in logarithmic time.</p>
    </div>
  </article>
  <footer>Copyright footer junk</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title author and content", func(t *testing.T) {
		t.Parallel()

		e := harvestgoquery.NewExtractor(nil)
		item, err := e.Extract(articleHTML, "https://example.com/blog/binary-search", nil)
		require.NoError(t, err)

		assert.Equal(t, "Binary Search Explained", item.Title)
		assert.Equal(t, "Ada Lovelace", item.Author)
		assert.Equal(t, "https://example.com/blog/binary-search", item.SourceURL)
		assert.Contains(t, item.Content, "Binary search halves the interval.")
		assert.Contains(t, item.Content, "logarithmic time")
		assert.NotContains(t, item.Content, "navigation chrome")
		assert.NotContains(t, item.Content, "footer junk")
	})

	t.Run("renders body through the converter", func(t *testing.T) {
		t.Parallel()

		e := harvestgoquery.NewExtractor(upperConverter{})
		item, err := e.Extract(articleHTML, "https://example.com/blog/binary-search", nil)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(item.Content, "CONVERTED:"))
	})

	t.Run("falls back to document title then Untitled", func(t *testing.T) {
		t.Parallel()

		e := harvestgoquery.NewExtractor(nil)

		withDocTitle := `<html><head><title>Only The Tab Title</title></head><body><div class="content">` +
			strings.Repeat("words ", 60) + `</div></body></html>`
		item, err := e.Extract(withDocTitle, "https://example.com/p/x", nil)
		require.NoError(t, err)
		assert.Equal(t, "Only The Tab Title", item.Title)

		noTitle := `<html><body><div class="content">` + strings.Repeat("words ", 60) + `</div></body></html>`
		item, err = e.Extract(noTitle, "https://example.com/p/x", nil)
		require.NoError(t, err)
		assert.Equal(t, harvest.UntitledTitle, item.Title)
	})

	t.Run("rejects too-short title candidates", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Hi</h1><h2 class="entry-title">A Proper Heading</h2><div class="content">` +
			strings.Repeat("words ", 60) + `</div></body></html>`

		e := harvestgoquery.NewExtractor(nil)
		item, err := e.Extract(html, "https://example.com/p/x", &harvest.SiteProfile{
			TitleSelectors: []string{"h1", ".entry-title"},
		})
		require.NoError(t, err)
		assert.Equal(t, "A Proper Heading", item.Title)
	})

	t.Run("uses profile default author when no byline", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Some Post</h1><div class="content">` +
			strings.Repeat("words ", 60) + `</div></body></html>`

		e := harvestgoquery.NewExtractor(nil)
		item, err := e.Extract(html, "https://example.com/blog/x", &harvest.SiteProfile{
			DefaultAuthor: "Site Team",
		})
		require.NoError(t, err)
		assert.Equal(t, "Site Team", item.Author)
	})

	t.Run("reads author from meta tag", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="author" content="Grace Hopper"></head>
			<body><h1>Some Post</h1><div class="content">` +
			strings.Repeat("words ", 60) + `</div></body></html>`

		e := harvestgoquery.NewExtractor(nil)
		item, err := e.Extract(html, "https://example.com/blog/x", nil)
		require.NoError(t, err)
		assert.Equal(t, "Grace Hopper", item.Author)
	})

	t.Run("falls back to whole body for short pages", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Tiny Page</h1><p>Only fifty characters of content live here now.</p></body></html>`

		e := harvestgoquery.NewExtractor(nil)
		item, err := e.Extract(html, "https://example.com/blog/tiny", nil)
		require.NoError(t, err)
		assert.Contains(t, item.Content, "fifty characters")
	})

	t.Run("returns ENOTFOUND for empty pages", func(t *testing.T) {
		t.Parallel()

		e := harvestgoquery.NewExtractor(nil)
		_, err := e.Extract("<html><body></body></html>", "https://example.com/blog/empty", nil)
		require.Error(t, err)
		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	})

	t.Run("profile content type wins over URL inference", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Some Guide</h1><div class="content">` +
			strings.Repeat("words ", 60) + `</div></body></html>`

		e := harvestgoquery.NewExtractor(nil)
		item, err := e.Extract(html, "https://example.com/blog/x", &harvest.SiteProfile{
			ContentType: harvest.ContentTypeGuide,
		})
		require.NoError(t, err)
		assert.Equal(t, harvest.ContentTypeGuide, item.ContentType)
	})

	t.Run("infers content type from URL shape", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Some Post</h1><div class="content">` +
			strings.Repeat("words ", 60) + `</div></body></html>`

		e := harvestgoquery.NewExtractor(nil)
		item, err := e.Extract(html, "https://example.com/blog/x", nil)
		require.NoError(t, err)
		assert.Equal(t, harvest.ContentTypeBlog, item.ContentType)
	})
}
