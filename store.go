package harvest

import (
	"context"
	"time"
)

// Run records one pipeline execution for the optional run archive.
type Run struct {
	ID         string    `json:"id"`
	TeamID     string    `json:"teamId"`
	Policy     string    `json:"policy"` // dedup policy applied for the batch
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Scraped    int       `json:"scraped"`
	Failed     int       `json:"failed"`
	Duplicates int       `json:"duplicates"`
}

// Validate returns an error if the run record is incomplete.
func (r *Run) Validate() error {
	if r.TeamID == "" {
		return Errorf(EINVALID, "run team ID required")
	}
	return nil
}

// RunStore archives runs and their items so successive scraper runs can
// be compared. The pipeline works without one; a nil store disables
// archiving.
type RunStore interface {
	// CreateRun persists a new run record, assigning its ID.
	CreateRun(ctx context.Context, run *Run) error

	// RecordItem persists one output item under a run, together with
	// its dedup fingerprint and quality score.
	RecordItem(ctx context.Context, runID string, item *Item, fingerprint string, score float64) error

	// FinishRun updates the run's counters and finish time.
	FinishRun(ctx context.Context, run *Run) error

	// FindRuns returns archived runs, most recent first.
	FindRuns(ctx context.Context) ([]*Run, error)
}
