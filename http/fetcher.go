// Package http provides the HTTP transport for the scraping pipeline:
// a retrying fetcher with politeness spacing and sitemap-based URL
// discovery. Sites that require JavaScript rendering are out of scope.
package http

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/harvestlabs/harvest"
)

// DefaultFetchTimeout is the default timeout for a single HTTP request.
const DefaultFetchTimeout = 30 * time.Second

// DefaultHostDelay is the default minimum spacing between requests to the
// same host.
const DefaultHostDelay = 1500 * time.Millisecond

// maxBackoff caps the retry delay regardless of attempt count.
const maxBackoff = 60 * time.Second

// defaultUserAgents is the rotation pool applied per request to reduce
// naive blocking.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// DefaultRetryDelays returns the base backoff delays between attempts:
// 1s, 2s, 4s. Jitter is added on top of each.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Ensure Fetcher implements harvest.Fetcher at compile time.
var _ harvest.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML over HTTP with retry, backoff and user-agent
// rotation. Transient failures (network errors, 429, 5xx) are retried
// with jittered exponential backoff; other 4xx responses are terminal
// for that URL. Requests to the same host are spaced by a per-host
// limiter independent of retries.
type Fetcher struct {
	client  *http.Client
	limiter *HostLimiter
	delays  []time.Duration
	agents  []string
	timeout time.Duration
	next    atomic.Uint64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetryDelays sets the backoff delays between attempts. The number of
// attempts is len(delays)+1. Tests pass zero delays to avoid waiting.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.delays = delays
	}
}

// WithHostDelay sets the minimum spacing between requests to one host.
func WithHostDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.limiter = NewHostLimiter(d)
	}
}

// WithUserAgents replaces the user-agent rotation pool.
func WithUserAgents(agents []string) Option {
	return func(f *Fetcher) {
		if len(agents) > 0 {
			f.agents = agents
		}
	}
}

// NewFetcher creates a new retrying HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		delays:  DefaultRetryDelays(),
		agents:  defaultUserAgents,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.limiter == nil {
		f.limiter = NewHostLimiter(DefaultHostDelay)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL, retrying transient
// failures.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", harvest.Errorf(harvest.EINVALID, "malformed URL %q", rawURL)
	}

	maxAttempts := len(f.delays) + 1
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}

		body, retryable, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(withJitter(f.delays[attempt])):
		}
	}

	return "", harvest.Errorf(harvest.EUNAVAILABLE, "fetch %s: retries exhausted: %v", rawURL, lastErr)
}

// fetchOnce performs a single request. The bool result reports whether a
// failure is worth retrying.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, harvest.Errorf(harvest.EINVALID, "malformed URL %q", url)
	}
	req.Header.Set("User-Agent", f.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return "", true, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", true, fmt.Errorf("read body %s: %w", url, err)
		}
		return string(body), false, nil

	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", true, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)

	case resp.StatusCode == http.StatusNotFound:
		return "", false, harvest.Errorf(harvest.ENOTFOUND, "HTTP 404 for %s", url)

	default:
		return "", false, harvest.Errorf(harvest.EINVALID, "HTTP %d for %s", resp.StatusCode, url)
	}
}

// userAgent returns the next agent in the rotation pool. Safe for
// concurrent fetches.
func (f *Fetcher) userAgent() string {
	n := f.next.Add(1) - 1
	return f.agents[n%uint64(len(f.agents))]
}

// withJitter adds up to one second of random jitter and applies the
// backoff cap. Zero delays stay zero so tests can disable backoff.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	d += time.Duration(rand.Int64N(int64(time.Second)))
	return min(d, maxBackoff)
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
