package scrape_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/harvestlabs/harvest"
	"github.com/harvestlabs/harvest/mock"
	"github.com/harvestlabs/harvest/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// longBody returns article content that clears the validity filter.
func longBody(seed string) string {
	return seed + " " + strings.Repeat("Substantial article prose for the validity filter. ", 10)
}

// pageFetcher serves a fixed URL->body map and counts fetches per URL.
type pageFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	fetches map[string]int
}

func newPageFetcher(pages map[string]string) *pageFetcher {
	return &pageFetcher{pages: pages, fetches: make(map[string]int)}
}

func (f *pageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.fetches[url]++
	f.mu.Unlock()

	body, ok := f.pages[url]
	if !ok {
		return "", harvest.Errorf(harvest.ENOTFOUND, "HTTP 404 for %s", url)
	}
	return body, nil
}

func (f *pageFetcher) Close() error { return nil }

func (f *pageFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[url]
}

// markupDiscoverer reads one URL per line from the fake listing body.
type markupDiscoverer struct{}

func (markupDiscoverer) Discover(html, baseURL string, profile *harvest.SiteProfile) ([]string, error) {
	var urls []string
	for _, line := range strings.Split(html, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http") {
			urls = append(urls, line)
		}
	}
	return urls, nil
}

func (markupDiscoverer) PaginationURL(html, baseURL string, profile *harvest.SiteProfile) (string, bool) {
	for _, line := range strings.Split(html, "\n") {
		if after, ok := strings.CutPrefix(strings.TrimSpace(line), "next: "); ok {
			return after, true
		}
	}
	return "", false
}

// titleExtractor builds an item whose title is the page body's first line.
type titleExtractor struct{}

func (titleExtractor) Extract(html, pageURL string, profile *harvest.SiteProfile) (*harvest.Item, error) {
	lines := strings.SplitN(html, "\n", 2)
	title := strings.TrimSpace(lines[0])
	if title == "" {
		return nil, harvest.Errorf(harvest.ENOTFOUND, "no usable content at %s", pageURL)
	}
	content := ""
	if len(lines) > 1 {
		content = strings.TrimSpace(lines[1])
	}
	return &harvest.Item{
		Title:       title,
		Content:     content,
		SourceURL:   pageURL,
		ContentType: harvest.ContentTypeBlog,
	}, nil
}

func newRunner(fetcher harvest.Fetcher) *scrape.Runner {
	return &scrape.Runner{
		Fetcher:    fetcher,
		Discoverer: markupDiscoverer{},
		Extractor:  titleExtractor{},
		TeamID:     "aline123",
		UserID:     "user-1",
	}
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	t.Run("scrapes discovered articles into the output", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog": "https://example.com/blog/a\nhttps://example.com/blog/b",
			"https://example.com/blog/a": "Post A\n" + longBody("alpha"),
			"https://example.com/blog/b": "Post B\n" + longBody("beta"),
		})

		runner := newRunner(fetcher)
		output, result, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		require.NotNil(t, output)
		assert.Equal(t, "aline123", output.TeamID)
		require.Len(t, output.Items, 2)
		assert.Equal(t, "Post A", output.Items[0].Title)
		assert.Equal(t, "Post B", output.Items[1].Title)
		assert.Equal(t, "user-1", output.Items[0].UserID)
		require.NoError(t, harvest.ValidateOutput(output))

		assert.Equal(t, 2, result.Discovered)
		assert.Equal(t, 2, result.Scraped)
		assert.Zero(t, result.Failed)
		assert.Zero(t, result.Duplicates)
	})

	t.Run("output order is deterministic with concurrency", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{}
		var listing []string
		for i := 0; i < 20; i++ {
			u := fmt.Sprintf("https://example.com/blog/p%02d", i)
			listing = append(listing, u)
			pages[u] = fmt.Sprintf("Post %02d\n%s", i, longBody(u))
		}
		pages["https://example.com/blog"] = strings.Join(listing, "\n")

		runner := newRunner(newPageFetcher(pages))
		runner.Concurrency = 8
		output, _, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		require.Len(t, output.Items, 20)
		for i, item := range output.Items {
			assert.Equal(t, fmt.Sprintf("Post %02d", i), item.Title)
		}
	})

	t.Run("each URL is fetched at most once across sites", func(t *testing.T) {
		t.Parallel()

		shared := "https://example.com/blog/shared"
		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog":   shared + "\nhttps://example.com/blog/a",
			"https://example.com/topics": shared + "\nhttps://example.com/topics/b",
			shared:                       "Shared Post\n" + longBody("shared"),
			"https://example.com/blog/a": "Post A\n" + longBody("a"),
			"https://example.com/topics/b": "Post B\n" + longBody("b"),
		})

		runner := newRunner(fetcher)
		output, _, err := runner.Run(context.Background(), []string{
			"https://example.com/blog",
			"https://example.com/topics",
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, fetcher.count(shared))
		assert.Len(t, output.Items, 3)
	})

	t.Run("duplicates across sites are removed once", func(t *testing.T) {
		t.Parallel()

		body := "Cross Posted\n" + longBody("same text everywhere")
		fetcher := newPageFetcher(map[string]string{
			"https://a.example.com/blog":   "https://a.example.com/blog/post",
			"https://b.example.com/blog":   "https://b.example.com/blog/post",
			"https://a.example.com/blog/post": body,
			"https://b.example.com/blog/post": body,
		})

		runner := newRunner(fetcher)
		output, result, err := runner.Run(context.Background(), []string{
			"https://a.example.com/blog",
			"https://b.example.com/blog",
		}, nil)
		require.NoError(t, err)

		assert.Len(t, output.Items, 1)
		assert.Equal(t, 1, result.Duplicates)
	})

	t.Run("one failing site does not abort the others", func(t *testing.T) {
		t.Parallel()

		failing := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if strings.Contains(url, "down.example.com") {
					return "", harvest.Errorf(harvest.EUNAVAILABLE, "fetch %s: retries exhausted", url)
				}
				if strings.HasSuffix(url, "/blog") {
					return "https://ok.example.com/blog/post", nil
				}
				return "Good Post\n" + longBody("good"), nil
			},
		}

		runner := newRunner(failing)
		output, result, err := runner.Run(context.Background(), []string{
			"https://down.example.com/blog",
			"https://ok.example.com/blog",
		}, nil)
		require.NoError(t, err)

		assert.Len(t, output.Items, 1)
		assert.Equal(t, "Good Post", output.Items[0].Title)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("missing article pages count as failures, not skips", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog":   "https://example.com/blog/a\nhttps://example.com/blog/gone",
			"https://example.com/blog/a": "Post A\n" + longBody("a"),
		})

		runner := newRunner(fetcher)
		output, result, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		require.Len(t, output.Items, 1)
		assert.Equal(t, 1, result.Failed)
		assert.Zero(t, result.Skipped)
	})

	t.Run("linkless listing becomes the sole item", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog": "The Only Page\n" + longBody("listing that is itself an article"),
		})

		runner := newRunner(fetcher)
		output, result, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		require.Len(t, output.Items, 1)
		assert.Equal(t, "The Only Page", output.Items[0].Title)
		assert.Equal(t, 1, result.Discovered)
	})

	t.Run("short items are filtered out of the output", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog":     "https://example.com/blog/full\nhttps://example.com/blog/stub",
			"https://example.com/blog/full": "Full Post\n" + longBody("full"),
			"https://example.com/blog/stub": "Stub Post\nonly fifty characters of content in this body",
		})

		runner := newRunner(fetcher)
		output, result, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		require.Len(t, output.Items, 1)
		assert.Equal(t, "Full Post", output.Items[0].Title)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("quality threshold gates items", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog":    "https://example.com/blog/good\nhttps://example.com/blog/poor",
			"https://example.com/blog/good": "Good Post\n" + longBody("good"),
			"https://example.com/blog/poor": "Poor Post\n" + longBody("poor"),
		})

		runner := newRunner(fetcher)
		runner.MinQuality = 0.5
		runner.Scorer = &mock.Scorer{
			ScoreFn: func(content string) float64 {
				if strings.Contains(content, "poor") {
					return 0.1
				}
				return 0.9
			},
		}

		output, _, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		require.Len(t, output.Items, 1)
		assert.Equal(t, "Good Post", output.Items[0].Title)
	})

	t.Run("follows pagination up to the profile cap", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog":        "https://example.com/blog/p1\nnext: https://example.com/blog?page=2",
			"https://example.com/blog?page=2": "https://example.com/blog/p2\nnext: https://example.com/blog?page=3",
			"https://example.com/blog?page=3": "https://example.com/blog/p3\nnext: https://example.com/blog?page=4",
			"https://example.com/blog/p1":     "Post 1\n" + longBody("one"),
			"https://example.com/blog/p2":     "Post 2\n" + longBody("two"),
			"https://example.com/blog/p3":     "Post 3\n" + longBody("three"),
		})

		runner := newRunner(fetcher)
		runner.Profiles = &mock.ProfileResolver{
			ProfileForFn: func(rawURL string) *harvest.SiteProfile {
				return &harvest.SiteProfile{MaxListingPages: 2}
			},
		}

		output, _, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		// Page 3 is beyond the cap so post 3 is never discovered.
		require.Len(t, output.Items, 2)
		assert.Zero(t, fetcher.count("https://example.com/blog?page=3"))
	})

	t.Run("caps articles per site", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{}
		var listing []string
		for i := 0; i < 10; i++ {
			u := fmt.Sprintf("https://example.com/blog/p%d", i)
			listing = append(listing, u)
			pages[u] = fmt.Sprintf("Post %d\n%s", i, longBody(u))
		}
		pages["https://example.com/blog"] = strings.Join(listing, "\n")

		runner := newRunner(newPageFetcher(pages))
		runner.MaxArticlesPerSite = 3
		output, _, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		assert.Len(t, output.Items, 3)
	})

	t.Run("uses the profile feed for discovery", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://blog.example.com/archive":    "",
			"https://blog.example.com/p/from-feed": "Feed Post\n" + longBody("from the feed"),
		})

		runner := newRunner(fetcher)
		runner.Profiles = &mock.ProfileResolver{
			ProfileForFn: func(rawURL string) *harvest.SiteProfile {
				return &harvest.SiteProfile{FeedPath: "/feed"}
			},
		}
		runner.Feeds = &mock.FeedService{
			DiscoverURLsFn: func(ctx context.Context, feedURL string) ([]string, error) {
				assert.Equal(t, "https://blog.example.com/feed", feedURL)
				return []string{"https://blog.example.com/p/from-feed"}, nil
			},
		}

		output, _, err := runner.Run(context.Background(), []string{"https://blog.example.com/archive"}, nil)
		require.NoError(t, err)

		require.Len(t, output.Items, 1)
		assert.Equal(t, "Feed Post", output.Items[0].Title)
	})

	t.Run("feed entries obey the profile URL predicates", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://blog.example.com/archive": "",
			"https://blog.example.com/p/kept":  "Kept Post\n" + longBody("kept"),
		})

		runner := newRunner(fetcher)
		runner.Profiles = &mock.ProfileResolver{
			ProfileForFn: func(rawURL string) *harvest.SiteProfile {
				return &harvest.SiteProfile{
					FeedPath:          "/feed",
					URLMustContainAny: []string{"/p/"},
					URLSkip:           []string{"/podcast/"},
				}
			},
		}
		runner.Feeds = &mock.FeedService{
			DiscoverURLsFn: func(ctx context.Context, feedURL string) ([]string, error) {
				return []string{
					"https://blog.example.com/p/kept",
					"https://blog.example.com/p/podcast/ep1",
					"https://blog.example.com/about",
					"https://other.example.com/p/elsewhere",
				}, nil
			},
		}

		output, result, err := runner.Run(context.Background(), []string{"https://blog.example.com/archive"}, nil)
		require.NoError(t, err)

		require.Len(t, output.Items, 1)
		assert.Equal(t, "Kept Post", output.Items[0].Title)
		assert.Equal(t, 1, result.Discovered)
	})

	t.Run("falls back to the sitemap when listing is empty", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog":          "",
			"https://example.com/blog/from-map": "Sitemap Post\n" + longBody("via sitemap"),
		})

		runner := newRunner(fetcher)
		runner.Profiles = &mock.ProfileResolver{
			ProfileForFn: func(rawURL string) *harvest.SiteProfile {
				return &harvest.SiteProfile{UseSitemap: true}
			},
		}
		runner.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *harvest.URLFilter) ([]string, error) {
				return []string{"https://example.com/blog/from-map"}, nil
			},
		}

		output, _, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		require.Len(t, output.Items, 1)
		assert.Equal(t, "Sitemap Post", output.Items[0].Title)
	})

	t.Run("merges book chapters into the batch", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog":   "https://example.com/blog/a",
			"https://example.com/blog/a": "Post A\n" + longBody("a"),
		})

		runner := newRunner(fetcher)
		runner.Chapters = &mock.ChapterSource{
			ChaptersFn: func() []*harvest.Item {
				return []*harvest.Item{{
					Title:       "Chapter 1: Introduction",
					Content:     longBody("chapter text"),
					SourceURL:   "https://example.com/book#chapter-1",
					ContentType: harvest.ContentTypeBook,
				}}
			},
		}

		output, _, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		require.Len(t, output.Items, 2)
		assert.Equal(t, harvest.ContentTypeBook, output.Items[1].ContentType)
	})

	t.Run("archives the run when a store is configured", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog":   "https://example.com/blog/a",
			"https://example.com/blog/a": "Post A\n" + longBody("a"),
		})

		var mu sync.Mutex
		var created, finished *harvest.Run
		var recorded []string
		store := &mock.RunStore{
			CreateRunFn: func(ctx context.Context, run *harvest.Run) error {
				run.ID = "run-1"
				created = run
				return nil
			},
			RecordItemFn: func(ctx context.Context, runID string, item *harvest.Item, fingerprint string, score float64) error {
				mu.Lock()
				defer mu.Unlock()
				assert.Equal(t, "run-1", runID)
				assert.NotEmpty(t, fingerprint)
				recorded = append(recorded, item.Title)
				return nil
			},
			FinishRunFn: func(ctx context.Context, run *harvest.Run) error {
				finished = run
				return nil
			},
		}

		runner := newRunner(fetcher)
		runner.Store = store
		_, _, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, "aline123", created.TeamID)
		assert.Equal(t, []string{"Post A"}, recorded)
		require.NotNil(t, finished)
		assert.Equal(t, 1, finished.Scraped)
		assert.False(t, finished.FinishedAt.IsZero())
	})

	t.Run("rejects unknown dedup policies", func(t *testing.T) {
		t.Parallel()

		runner := newRunner(newPageFetcher(nil))
		runner.Policy = scrape.Policy("fuzzy")
		_, _, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, nil)
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("emits progress events", func(t *testing.T) {
		t.Parallel()

		fetcher := newPageFetcher(map[string]string{
			"https://example.com/blog":       "https://example.com/blog/a\nhttps://example.com/blog/empty\nhttps://example.com/blog/missing",
			"https://example.com/blog/a":     "Post A\n" + longBody("a"),
			"https://example.com/blog/empty": "",
		})

		var events []scrape.ProgressType
		runner := newRunner(fetcher)
		_, _, err := runner.Run(context.Background(), []string{"https://example.com/blog"}, func(e scrape.ProgressEvent) {
			events = append(events, e.Type)
		})
		require.NoError(t, err)

		assert.Contains(t, events, scrape.ProgressSiteStarted)
		assert.Contains(t, events, scrape.ProgressCompleted)
		assert.Contains(t, events, scrape.ProgressSkipped)
		assert.Contains(t, events, scrape.ProgressFailed)
		assert.Equal(t, scrape.ProgressFinished, events[len(events)-1])
	})
}
