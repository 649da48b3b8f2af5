package scrape

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Tracker sizing. False positives cause a URL to be skipped, never
// fetched twice, so the at-most-once guarantee holds either way.
const (
	trackerExpectedURLs      = 10000
	trackerFalsePositiveRate = 0.01
)

// Tracker is the seen-URL accumulator shared across a whole run. Every
// discovered URL passes through it before fetching, so a page reached
// from two listings, a feed and a sitemap is still fetched at most once.
// Safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	seen  *bloom.BloomFilter
	count int
}

// NewTracker creates a Tracker sized for a typical run.
func NewTracker() *Tracker {
	return &Tracker{
		seen: bloom.NewWithEstimates(trackerExpectedURLs, trackerFalsePositiveRate),
	}
}

// Add marks a URL as seen. Returns false if it was already seen. URL
// fragments are stripped first, so URLs differing only by fragment count
// as one.
func (t *Tracker) Add(rawURL string) bool {
	url := stripFragment(rawURL)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seen.TestString(url) {
		return false
	}
	t.seen.AddString(url)
	t.count++
	return true
}

// Seen reports whether the URL has been added.
func (t *Tracker) Seen(rawURL string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seen.TestString(stripFragment(rawURL))
}

// Count returns how many distinct URLs have been added.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
