package harvest

import "context"

// Fetcher retrieves the HTML body of a URL.
//
// Implementations own retry, politeness spacing, and user-agent handling.
// Failures are always signaled through the error return: a nil error with
// an empty body never happens. Transient exhaustion surfaces as
// EUNAVAILABLE, terminal client failures as EINVALID or ENOTFOUND, so
// callers can tell a skippable URL from a broken one.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases client resources.
	Close() error
}
