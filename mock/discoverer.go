package mock

import (
	"context"

	"github.com/harvestlabs/harvest"
)

var _ harvest.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer is a mock implementation of harvest.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverFn      func(html string, baseURL string, profile *harvest.SiteProfile) ([]string, error)
	PaginationURLFn func(html string, baseURL string, profile *harvest.SiteProfile) (string, bool)
}

func (d *LinkDiscoverer) Discover(html string, baseURL string, profile *harvest.SiteProfile) ([]string, error) {
	return d.DiscoverFn(html, baseURL, profile)
}

func (d *LinkDiscoverer) PaginationURL(html string, baseURL string, profile *harvest.SiteProfile) (string, bool) {
	if d.PaginationURLFn == nil {
		return "", false
	}
	return d.PaginationURLFn(html, baseURL, profile)
}

var _ harvest.FeedService = (*FeedService)(nil)

// FeedService is a mock implementation of harvest.FeedService.
type FeedService struct {
	DiscoverURLsFn func(ctx context.Context, feedURL string) ([]string, error)
}

func (s *FeedService) DiscoverURLs(ctx context.Context, feedURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, feedURL)
}

var _ harvest.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of harvest.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *harvest.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *harvest.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
