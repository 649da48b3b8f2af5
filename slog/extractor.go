package slog

import (
	"log/slog"
	"time"

	"github.com/harvestlabs/harvest"
)

// Ensure LoggingExtractor implements harvest.Extractor.
var _ harvest.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   harvest.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next harvest.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(html string, pageURL string, profile *harvest.SiteProfile) (item *harvest.Item, err error) {
	defer func(begin time.Time) {
		title := ""
		chars := 0
		if item != nil {
			title = item.Title
			chars = len(item.Content)
		}
		e.logger.Info("extract",
			"url", pageURL,
			"title", title,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, pageURL, profile)
}
