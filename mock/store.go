package mock

import (
	"context"

	"github.com/harvestlabs/harvest"
)

var _ harvest.RunStore = (*RunStore)(nil)

// RunStore is a mock implementation of harvest.RunStore.
type RunStore struct {
	CreateRunFn  func(ctx context.Context, run *harvest.Run) error
	RecordItemFn func(ctx context.Context, runID string, item *harvest.Item, fingerprint string, score float64) error
	FinishRunFn  func(ctx context.Context, run *harvest.Run) error
	FindRunsFn   func(ctx context.Context) ([]*harvest.Run, error)
}

func (s *RunStore) CreateRun(ctx context.Context, run *harvest.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunStore) RecordItem(ctx context.Context, runID string, item *harvest.Item, fingerprint string, score float64) error {
	return s.RecordItemFn(ctx, runID, item, fingerprint, score)
}

func (s *RunStore) FinishRun(ctx context.Context, run *harvest.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunStore) FindRuns(ctx context.Context) ([]*harvest.Run, error) {
	return s.FindRunsFn(ctx)
}
