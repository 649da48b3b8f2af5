package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/harvestlabs/harvest"
	"github.com/harvestlabs/harvest/goquery"
	"github.com/harvestlabs/harvest/htmltomarkdown"
	"github.com/harvestlabs/harvest/quality"
	"github.com/harvestlabs/harvest/scrape"
)

// Fixture pages for the offline pipeline check. Two articles share a
// title and content prefix so deduplication has something to remove.
var selftestPages = map[string]string{
	"https://selftest.invalid/blog": `<html><body>
		<article><h2><a href="/blog/negotiation">Negotiating Your Offer</a></h2></article>
		<article><h2><a href="/blog/negotiation-repost">Negotiation Repost</a></h2></article>
		<article><h2><a href="/blog/stub">A Stub</a></h2></article>
	</body></html>`,
	"https://selftest.invalid/blog/negotiation":        selftestArticle("Negotiating Your Offer"),
	"https://selftest.invalid/blog/negotiation-repost": selftestArticle("Negotiating Your Offer"),
	"https://selftest.invalid/blog/stub": `<html><head><title>A Stub</title></head>
		<body><div class="post-content">Too short.</div></body></html>`,
}

func selftestArticle(title string) string {
	body := strings.Repeat("Salary negotiation is a solvable problem once you understand the incentives on the other side of the table. ", 6)
	return fmt.Sprintf(`<html><head><title>%s</title></head><body>
		<h1 class="post-title">%s</h1>
		<div class="author-name">Jane Doe</div>
		<div class="post-content"><h2>Why it matters</h2><p>%s</p><p>%s</p></div>
	</body></html>`, title, title, body, body)
}

type selftestFetcher struct {
	pages map[string]string
}

func (f *selftestFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if html, ok := f.pages[url]; ok {
		return html, nil
	}
	return "", harvest.Errorf(harvest.ENOTFOUND, "fetch %s: not found", url)
}

func (f *selftestFetcher) Close() error { return nil }

// Run executes the selftest command: the real discovery, extraction,
// scoring and dedup stages against embedded pages, no network involved.
func (c *SelftestCmd) Run(deps *Dependencies) error {
	converter := htmltomarkdown.NewConverter()
	runner := &scrape.Runner{
		Fetcher:    &selftestFetcher{pages: selftestPages},
		Profiles:   harvest.DefaultRegistry(),
		Discoverer: goquery.NewDiscoverer(),
		Extractor:  goquery.NewExtractor(converter),
		Scorer:     quality.NewScorer(),
		TeamID:     "selftest",
	}

	doc, result, err := runner.Run(deps.Ctx, []string{"https://selftest.invalid/blog"}, nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "selftest: pipeline error: %v\n", err)
		return err
	}

	checks := []struct {
		name string
		ok   bool
	}{
		{"discovered all fixture articles", result.Discovered == 3},
		{"duplicate removed", result.Duplicates == 1},
		{"short article filtered", result.Skipped == 1},
		{"one item in output", len(doc.Items) == 1},
		{"output validates", harvest.ValidateOutput(doc) == nil},
	}

	failed := 0
	for _, check := range checks {
		status := "ok"
		if !check.ok {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(deps.Stdout, "%-32s %s\n", check.name, status)
	}
	if failed > 0 {
		return fmt.Errorf("selftest: %d of %d checks failed", failed, len(checks))
	}
	fmt.Fprintln(deps.Stdout, "selftest passed")
	return nil
}
