package harvest

import (
	"context"
	"regexp"
)

// LinkDiscoverer extracts candidate article URLs from a listing page.
type LinkDiscoverer interface {
	// Discover applies the profile's selectors and URL predicates to the
	// listing HTML and returns absolute URLs with set semantics: the
	// result is free of duplicates even when selectors overlap, and it
	// preserves first-occurrence order so runs are deterministic.
	Discover(html string, baseURL string, profile *SiteProfile) ([]string, error)

	// PaginationURL returns the next listing page declared by the
	// profile's pagination selector, if any.
	PaginationURL(html string, baseURL string, profile *SiteProfile) (string, bool)
}

// FeedService discovers article URLs from an RSS or Atom feed.
type FeedService interface {
	DiscoverURLs(ctx context.Context, feedURL string) ([]string, error)
}

// SitemapService discovers URLs from website sitemaps.
// It checks robots.txt for sitemap directives, falls back to
// /sitemap.xml, and resolves sitemap indexes recursively.
type SitemapService interface {
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern
	// are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// A nil filter passes everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}
