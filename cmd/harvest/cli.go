package main

import (
	"context"
	"io"

	"github.com/harvestlabs/harvest"
	"github.com/harvestlabs/harvest/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	DB     *sqlite.DB
	Store  harvest.RunStore

	// NewRunner builds a pipeline runner from the scrape flags. Wired
	// in Run so tests can substitute their own pipeline.
	NewRunner func(flags *ScrapeFlags) (Runner, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Site     SiteCmd     `cmd:"" help:"Scrape one or more blog listing URLs"`
	Batch    BatchCmd    `cmd:"" help:"Scrape listing URLs read from a file, one per line"`
	Run      RunCmd      `cmd:"" help:"Scrape the full built-in site set including book chapters"`
	Sites    SitesCmd    `cmd:"" help:"List sites with registered profiles"`
	Runs     RunsCmd     `cmd:"" help:"List archived runs"`
	Selftest SelftestCmd `cmd:"" help:"Run the pipeline offline against embedded fixture pages"`
}

// ScrapeFlags are shared by the site, batch and run commands.
type ScrapeFlags struct {
	Out         string  `short:"o" default:"output.json" help:"Output file path"`
	TeamID      string  `default:"aline123" help:"Team ID stamped on the output"`
	UserID      string  `help:"User ID stamped on each item"`
	Engine      string  `default:"selectors" enum:"selectors,readability,trafilatura" help:"Extraction engine"`
	Dedupe      string  `default:"title-prefix" enum:"title-prefix,content-hash" help:"Dedup policy"`
	MinContent  int     `default:"150" help:"Minimum content length in characters"`
	MinQuality  float64 `default:"0.3" help:"Minimum quality score (0 disables the gate)"`
	Concurrency int     `short:"c" default:"1" help:"Concurrent fetches per site"`
	Timeout     int     `default:"30" help:"Per-request timeout in seconds"`
	Delay       int     `default:"1500" help:"Per-host delay in milliseconds"`
	MaxArticles int     `help:"Cap on articles per site (0 means no cap)"`
	Chapters    bool    `help:"Include the built-in book chapters"`
	Verbose     bool    `short:"v" help:"Log each fetch and extraction"`
}

// SiteCmd is the "site" subcommand.
type SiteCmd struct {
	URLs []string `arg:"" help:"Blog listing URLs to scrape"`
	ScrapeFlags
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File string `arg:"" type:"existingfile" help:"File with one listing URL per line"`
	ScrapeFlags
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	ScrapeFlags
}

// SitesCmd is the "sites" subcommand.
type SitesCmd struct{}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct{}

// SelftestCmd is the "selftest" subcommand.
type SelftestCmd struct{}
