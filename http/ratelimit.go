package http

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HostLimiter enforces minimum spacing between requests to the same host.
// Each host gets its own limiter so fetching one slow site does not stall
// the others. Safe for concurrent use.
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// NewHostLimiter creates a HostLimiter with the given minimum interval
// between requests to one host. A non-positive interval disables limiting.
func NewHostLimiter(interval time.Duration) *HostLimiter {
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until a request to host is permitted or ctx is cancelled.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	if l.interval <= 0 {
		return nil
	}
	return l.limiterFor(host).Wait(ctx)
}

func (l *HostLimiter) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[host] = lim
	}
	return lim
}
