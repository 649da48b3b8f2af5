package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/harvestlabs/harvest"
	"github.com/harvestlabs/harvest/fs"
	"github.com/harvestlabs/harvest/scrape"
)

// Run executes the site command.
func (c *SiteCmd) Run(deps *Dependencies) error {
	return executeScrape(deps, &c.ScrapeFlags, c.URLs)
}

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	urls, err := readURLFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", c.File)
	}
	return executeScrape(deps, &c.ScrapeFlags, urls)
}

// Run executes the run command against the built-in site set.
func (c *RunCmd) Run(deps *Dependencies) error {
	c.Chapters = true
	return executeScrape(deps, &c.ScrapeFlags, harvest.AssignmentSites())
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func executeScrape(deps *Dependencies, flags *ScrapeFlags, siteURLs []string) error {
	runner, err := deps.NewRunner(flags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	progress := func(event scrape.ProgressEvent) {
		switch event.Type {
		case scrape.ProgressSiteStarted:
			fmt.Fprintf(deps.Stdout, "%s: found %d articles\n", event.Site, event.Total)
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  fail %s: %v\n", event.URL, event.Error)
		case scrape.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "  skip %s\n", event.URL)
		case scrape.ProgressFinished:
			// Summary printed after the run completes
		}
	}

	doc, result, err := runner.Run(deps.Ctx, siteURLs, progress)
	if err != nil {
		// The runner returns the partial document on abort; flush what
		// completed so the work is not lost.
		if doc != nil {
			if werr := fs.NewWriter().WriteOutput(flags.Out, doc); werr == nil {
				fmt.Fprintf(deps.Stdout, "Wrote %d partial items to %s\n", len(doc.Items), flags.Out)
			}
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if err := fs.NewWriter().WriteOutput(flags.Out, doc); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d items to %s (%d discovered, %d failed, %d skipped, %d duplicates)\n",
		len(doc.Items), flags.Out, result.Discovered, result.Failed, result.Skipped, result.Duplicates)

	return nil
}
