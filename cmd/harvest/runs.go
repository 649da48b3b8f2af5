package main

import (
	"fmt"
	"time"

	"github.com/harvestlabs/harvest"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Store.FindRuns(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'harvest scrape' or 'harvest batch' to create one.")
		return nil
	}

	for _, r := range runs {
		finished := "(running)"
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  scraped=%d failed=%d duplicates=%d\n",
			r.ID, r.StartedAt.Format(time.RFC3339), finished, r.Policy,
			r.Scraped, r.Failed, r.Duplicates)
	}

	return nil
}
