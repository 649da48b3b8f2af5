// Package harvest provides a best-effort article scraping pipeline.
// It discovers article URLs on a fixed set of sites, extracts title,
// author and body text from their HTML, scores content quality, removes
// duplicates across the batch, and emits normalized JSON records.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, readability/);
// orchestration lives in scrape/.
package harvest
