package sqlite

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/harvestlabs/harvest"
)

// Compile-time interface verification.
var _ harvest.RunStore = (*RunService)(nil)

// RunService implements harvest.RunStore using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// CreateRun persists a new run record, assigning its ID.
func (s *RunService) CreateRun(ctx context.Context, run *harvest.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, team_id, policy, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.TeamID, run.Policy, run.StartedAt.UTC().Format(time.RFC3339))

	return err
}

// RecordItem persists one output item under a run.
func (s *RunService) RecordItem(ctx context.Context, runID string, item *harvest.Item, fingerprint string, score float64) error {
	if runID == "" {
		return harvest.Errorf(harvest.EINVALID, "run ID required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, run_id, title, content, content_hash, fingerprint, content_type, source_url, author, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), runID, item.Title, item.Content, hashContent(item.Content),
		fingerprint, string(item.ContentType), item.SourceURL, item.Author, score)

	return err
}

// FinishRun updates the run's counters and finish time.
func (s *RunService) FinishRun(ctx context.Context, run *harvest.Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, scraped = ?, failed = ?, duplicates = ?
		WHERE id = ?
	`, run.FinishedAt.UTC().Format(time.RFC3339), run.Scraped, run.Failed, run.Duplicates, run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return harvest.Errorf(harvest.ENOTFOUND, "run not found")
	}
	return nil
}

// FindRuns returns archived runs, most recent first.
func (s *RunService) FindRuns(ctx context.Context) ([]*harvest.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, team_id, policy, started_at, finished_at, scraped, failed, duplicates
		FROM runs
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*harvest.Run
	for rows.Next() {
		var run harvest.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.TeamID, &run.Policy, &startedAt, &finishedAt,
			&run.Scraped, &run.Failed, &run.Duplicates); err != nil {
			return nil, err
		}

		run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at: %w", err)
		}
		if finishedAt != "" {
			run.FinishedAt, err = time.Parse(time.RFC3339, finishedAt)
			if err != nil {
				return nil, fmt.Errorf("failed to parse finished_at: %w", err)
			}
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// ItemCount returns how many items are recorded under a run.
func (s *RunService) ItemCount(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items WHERE run_id = ?", runID).Scan(&n)
	return n, err
}
