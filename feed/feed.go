// Package feed discovers article URLs from RSS and Atom feeds. Substack
// archives paginate with client-side rendering, so their /feed endpoint
// is the reliable way in.
package feed

import (
	"context"
	"strings"

	"github.com/harvestlabs/harvest"
	"github.com/mmcdole/gofeed"
)

// Ensure Service implements harvest.FeedService at compile time.
var _ harvest.FeedService = (*Service)(nil)

// Service parses feeds fetched through the shared Fetcher so feed
// requests get the same retry and politeness behavior as page fetches.
type Service struct {
	fetcher harvest.Fetcher
	parser  *gofeed.Parser
}

// NewService creates a feed Service on top of the given fetcher.
func NewService(fetcher harvest.Fetcher) *Service {
	return &Service{
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
	}
}

// DiscoverURLs fetches and parses the feed at feedURL and returns the
// entry links, deduplicated in feed order.
func (s *Service) DiscoverURLs(ctx context.Context, feedURL string) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parser.ParseString(body)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "parsing feed %s: %v", feedURL, err)
	}

	var urls []string
	seen := make(map[string]bool)
	for _, item := range parsed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" || seen[link] {
			continue
		}
		seen[link] = true
		urls = append(urls, link)
	}
	return urls, nil
}
