// Package scrape orchestrates the pipeline: per-site URL discovery,
// fetching, extraction, scoring, deduplication and output assembly.
package scrape

import (
	"context"
	"net/url"
	"time"

	"github.com/harvestlabs/harvest"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxListingPages caps pagination follow-ups per site when the
// profile does not set its own limit.
const DefaultMaxListingPages = 10

// Runner wires the pipeline services together. Sites are processed
// independently: one site failing completely never aborts the others.
type Runner struct {
	Fetcher    harvest.Fetcher
	Profiles   harvest.ProfileResolver
	Discoverer harvest.LinkDiscoverer
	Extractor  harvest.Extractor
	Scorer     harvest.Scorer
	Feeds      harvest.FeedService
	Sitemaps   harvest.SitemapService
	Chapters   harvest.ChapterSource
	Store      harvest.RunStore

	// Concurrency bounds in-flight article fetches per site. The
	// default of 1 keeps runs strictly sequential; higher values trade
	// politeness for speed.
	Concurrency int

	// MaxArticlesPerSite caps article URLs per site after discovery.
	// Zero means no cap.
	MaxArticlesPerSite int

	// MinContentLength and MinQuality gate items out of the output.
	// Zero values select the defaults (DefaultMinContentLength, no
	// quality threshold).
	MinContentLength int
	MinQuality       float64

	// Policy selects the dedup fingerprint for the whole batch.
	Policy Policy

	TeamID string
	UserID string
}

// Result summarizes a run.
type Result struct {
	Discovered int // article URLs found across all sites
	Scraped    int // items that survived extraction and filtering
	Failed     int // fetch or extraction failures
	Skipped    int // pages with no extractable article
	Duplicates int // items removed by deduplication
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Site      string
	URL       string
	Completed int
	Total     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressSiteStarted ProgressType = iota
	ProgressCompleted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing one article URL.
type pageResult struct {
	position int
	url      string
	item     *harvest.Item
	skipped  bool
	err      error
}

// Run scrapes the given listing URLs and returns the output document.
// The output is assembled even when the context is cancelled mid-run, so
// callers can flush partial results; the error reports the cancellation.
func (r *Runner) Run(ctx context.Context, siteURLs []string, progress ProgressFunc) (*harvest.Output, *Result, error) {
	policy := r.Policy
	if policy == "" {
		policy = DefaultPolicy
	}
	if !policy.Valid() {
		return nil, nil, harvest.Errorf(harvest.EINVALID, "unknown dedup policy %q", policy)
	}

	run := &harvest.Run{
		TeamID:    r.TeamID,
		Policy:    string(policy),
		StartedAt: time.Now(),
	}
	if r.Store != nil {
		if err := r.Store.CreateRun(ctx, run); err != nil {
			return nil, nil, err
		}
	}

	tracker := NewTracker()
	result := &Result{}
	var items []*harvest.Item

	for _, siteURL := range siteURLs {
		if ctx.Err() != nil {
			break
		}
		siteItems := r.scrapeSite(ctx, siteURL, tracker, result, progress)
		items = append(items, siteItems...)
	}

	if r.Chapters != nil {
		items = append(items, r.Chapters.Chapters()...)
	}

	items = r.filter(items, result)
	kept, duplicates := Dedupe(items, policy)
	result.Duplicates = duplicates
	result.Scraped = len(kept)

	output := harvest.FormatItems(kept, r.TeamID, r.UserID)

	if r.Store != nil {
		r.archive(ctx, run, kept, policy, result)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: result.Scraped, Total: result.Discovered})
	}

	// Partial output is still returned on cancellation.
	return output, result, ctx.Err()
}

// scrapeSite discovers and processes one site's articles.
func (r *Runner) scrapeSite(ctx context.Context, siteURL string, tracker *Tracker, result *Result, progress ProgressFunc) []*harvest.Item {
	var profile *harvest.SiteProfile
	if r.Profiles != nil {
		profile = r.Profiles.ProfileFor(siteURL)
	}

	urls, listingHTML, err := r.discover(ctx, siteURL, profile)
	if err != nil {
		result.Failed++
		if progress != nil {
			progress(ProgressEvent{Type: ProgressFailed, Site: siteURL, URL: siteURL, Error: err})
		}
		return nil
	}

	// A listing with no discoverable links is treated as a single
	// article page.
	if len(urls) == 0 {
		if !tracker.Add(siteURL) {
			return nil
		}
		result.Discovered++
		if progress != nil {
			progress(ProgressEvent{Type: ProgressSiteStarted, Site: siteURL, Total: 1})
		}
		res := r.extractPage(listingHTML, siteURL, profile, 0)
		return r.collect([]pageResult{res}, siteURL, result, progress)
	}

	fresh := make([]string, 0, len(urls))
	for _, u := range urls {
		if tracker.Add(u) {
			fresh = append(fresh, u)
		}
	}
	if r.MaxArticlesPerSite > 0 && len(fresh) > r.MaxArticlesPerSite {
		fresh = fresh[:r.MaxArticlesPerSite]
	}
	result.Discovered += len(fresh)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressSiteStarted, Site: siteURL, Total: len(fresh)})
	}

	return r.collect(r.processAll(ctx, fresh, profile), siteURL, result, progress)
}

// discover gathers candidate article URLs for a site: feed first when
// the profile declares one, then the listing page with pagination, then
// the sitemap as a fallback. The listing HTML is returned so a linkless
// listing can be extracted directly.
func (r *Runner) discover(ctx context.Context, siteURL string, profile *harvest.SiteProfile) ([]string, string, error) {
	var urls []string
	seen := make(map[string]bool)
	add := func(list []string) {
		for _, u := range list {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}

	if profile != nil && profile.FeedPath != "" && r.Feeds != nil {
		if feedURL := resolveFeedURL(siteURL, profile.FeedPath); feedURL != "" {
			if feedURLs, err := r.Feeds.DiscoverURLs(ctx, feedURL); err == nil {
				add(allowedURLs(feedURLs, siteURL, profile))
			}
		}
	}

	maxPages := DefaultMaxListingPages
	if profile != nil && profile.MaxListingPages > 0 {
		maxPages = profile.MaxListingPages
	}

	var firstListingHTML string
	visited := make(map[string]bool)
	pageURL := siteURL
	for page := 0; page < maxPages && !visited[pageURL]; page++ {
		visited[pageURL] = true

		html, err := r.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			if page == 0 && len(urls) == 0 {
				return nil, "", err
			}
			break
		}
		if page == 0 {
			firstListingHTML = html
		}

		links, err := r.Discoverer.Discover(html, pageURL, profile)
		if err != nil {
			break
		}
		add(links)

		next, ok := r.Discoverer.PaginationURL(html, pageURL, profile)
		if !ok {
			break
		}
		pageURL = next
	}

	if len(urls) == 0 && profile != nil && profile.UseSitemap && r.Sitemaps != nil {
		if sitemapURLs, err := r.Sitemaps.DiscoverURLs(ctx, siteURL, nil); err == nil {
			add(allowedURLs(sitemapURLs, siteURL, profile))
		}
	}

	return urls, firstListingHTML, nil
}

// processAll fetches and extracts the given URLs with bounded
// concurrency. Results are re-keyed by position so output order matches
// discovery order regardless of completion order.
func (r *Runner) processAll(ctx context.Context, urls []string, profile *harvest.SiteProfile) []pageResult {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]pageResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			results[i] = r.processURL(gctx, i, u, profile)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// processURL fetches and extracts a single article page.
func (r *Runner) processURL(ctx context.Context, position int, pageURL string, profile *harvest.SiteProfile) pageResult {
	if ctx.Err() != nil {
		return pageResult{position: position, url: pageURL, err: ctx.Err()}
	}

	// Fetch failures of any kind count as failed. Only an extraction
	// miss on a fetched page is a skip.
	html, err := r.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return pageResult{position: position, url: pageURL, err: err}
	}
	return r.extractPage(html, pageURL, profile, position)
}

// extractPage runs extraction on already-fetched HTML.
func (r *Runner) extractPage(html, pageURL string, profile *harvest.SiteProfile, position int) pageResult {
	res := pageResult{position: position, url: pageURL}
	if html == "" {
		res.skipped = true
		return res
	}

	item, err := r.Extractor.Extract(html, pageURL, profile)
	if err != nil {
		res.err = err
		res.skipped = harvest.ErrorCode(err) == harvest.ENOTFOUND
		return res
	}

	if r.Scorer != nil {
		item.SetMeta("quality_score", r.Scorer.Score(item.Content))
	}
	item.SetMeta("word_count", item.WordCount())
	item.SetMeta("scraped_at", time.Now().UTC().Format(time.RFC3339))
	res.item = item
	return res
}

// collect folds page results into the running totals and emits progress.
func (r *Runner) collect(results []pageResult, site string, result *Result, progress ProgressFunc) []*harvest.Item {
	var items []*harvest.Item
	for _, res := range results {
		switch {
		case res.item != nil:
			items = append(items, res.item)
			if progress != nil {
				progress(ProgressEvent{Type: ProgressCompleted, Site: site, URL: res.url})
			}
		case res.skipped:
			result.Skipped++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressSkipped, Site: site, URL: res.url, Error: res.err})
			}
		default:
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, Site: site, URL: res.url, Error: res.err})
			}
		}
	}
	return items
}

// filter applies the validity and quality gates before deduplication.
func (r *Runner) filter(items []*harvest.Item, result *Result) []*harvest.Item {
	kept := make([]*harvest.Item, 0, len(items))
	for _, item := range items {
		if err := item.Validate(r.MinContentLength); err != nil {
			result.Skipped++
			continue
		}
		if r.MinQuality > 0 {
			if score, ok := item.Metadata["quality_score"].(float64); ok && score < r.MinQuality {
				result.Skipped++
				continue
			}
		}
		kept = append(kept, item)
	}
	return kept
}

// archive persists the run and its items. Archive failures do not fail
// the run; the output document is the primary artifact.
func (r *Runner) archive(ctx context.Context, run *harvest.Run, items []*harvest.Item, policy Policy, result *Result) {
	for _, item := range items {
		score, _ := item.Metadata["quality_score"].(float64)
		_ = r.Store.RecordItem(ctx, run.ID, item, Fingerprint(item, policy), score)
	}
	run.FinishedAt = time.Now()
	run.Scraped = result.Scraped
	run.Failed = result.Failed
	run.Duplicates = result.Duplicates
	_ = r.Store.FinishRun(ctx, run)
}

// allowedURLs filters candidates through the profile's URL predicates so
// feed and sitemap entries obey the same rules as selector discovery.
func allowedURLs(urls []string, siteURL string, profile *harvest.SiteProfile) []string {
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if profile.AllowsURL(u, siteURL) {
			kept = append(kept, u)
		}
	}
	return kept
}

// resolveFeedURL anchors a profile's feed path at the site's host root.
func resolveFeedURL(siteURL, feedPath string) string {
	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return ""
	}
	ref, err := url.Parse(feedPath)
	if err != nil {
		return ""
	}
	root := &url.URL{Scheme: u.Scheme, Host: u.Host}
	return root.ResolveReference(ref).String()
}
