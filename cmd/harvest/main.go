package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/harvestlabs/harvest"
	"github.com/harvestlabs/harvest/book"
	"github.com/harvestlabs/harvest/feed"
	"github.com/harvestlabs/harvest/goquery"
	"github.com/harvestlabs/harvest/htmltomarkdown"
	harvesthttp "github.com/harvestlabs/harvest/http"
	"github.com/harvestlabs/harvest/quality"
	"github.com/harvestlabs/harvest/readability"
	"github.com/harvestlabs/harvest/scrape"
	harvestslog "github.com/harvestlabs/harvest/slog"
	"github.com/harvestlabs/harvest/sqlite"
	"github.com/harvestlabs/harvest/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Runner runs the scrape pipeline.
type Runner interface {
	Run(ctx context.Context, siteURLs []string, progress scrape.ProgressFunc) (*harvest.Output, *scrape.Result, error)
}

// Main represents the program.
type Main struct {
	// Database path for the run archive. Empty disables archiving.
	// Set before calling Run().
	DBPath string

	// SQLite database used by the run archive.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: os.Getenv("HARVEST_DB"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("harvest"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'harvest --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The runs command needs the archive; scrape and batch use it when
	// configured.
	if m.DBPath == "" && cmd == "runs" {
		fmt.Fprintln(stderr, "Hint: Set HARVEST_DB to enable the run archive")
		return fmt.Errorf("no database configured")
	}
	if m.DBPath != "" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set HARVEST_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		deps.DB = m.DB
		deps.Store = sqlite.NewRunService(m.DB)
	}

	deps.NewRunner = func(flags *ScrapeFlags) (Runner, error) {
		return newRunner(flags, deps.Store, stderr)
	}

	return kongCtx.Run(deps)
}

// newRunner assembles the pipeline from the scrape flags.
func newRunner(flags *ScrapeFlags, store harvest.RunStore, stderr io.Writer) (Runner, error) {
	fetcher := harvesthttp.NewFetcher(
		harvesthttp.WithTimeout(time.Duration(flags.Timeout)*time.Second),
		harvesthttp.WithHostDelay(time.Duration(flags.Delay)*time.Millisecond),
	)

	converter := htmltomarkdown.NewConverter()
	extractor, err := buildExtractor(flags.Engine, converter)
	if err != nil {
		return nil, err
	}

	var (
		pipelineFetcher   harvest.Fetcher        = fetcher
		pipelineExtractor harvest.Extractor      = extractor
		sitemaps          harvest.SitemapService = harvesthttp.NewSitemapService(nil)
	)
	if flags.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, nil))
		pipelineFetcher = harvestslog.NewLoggingFetcher(fetcher, logger)
		pipelineExtractor = harvestslog.NewLoggingExtractor(extractor, logger)
		sitemaps = harvestslog.NewLoggingSitemapService(sitemaps, logger)
	}

	var chapters harvest.ChapterSource
	if flags.Chapters {
		chapters = book.NewSource()
	}

	return &scrape.Runner{
		Fetcher:            pipelineFetcher,
		Profiles:           harvest.DefaultRegistry(),
		Discoverer:         goquery.NewDiscoverer(),
		Extractor:          pipelineExtractor,
		Scorer:             quality.NewScorer(),
		Feeds:              feed.NewService(pipelineFetcher),
		Sitemaps:           sitemaps,
		Chapters:           chapters,
		Store:              store,
		Concurrency:        flags.Concurrency,
		MaxArticlesPerSite: flags.MaxArticles,
		MinContentLength:   flags.MinContent,
		MinQuality:         flags.MinQuality,
		Policy:             scrape.Policy(flags.Dedupe),
		TeamID:             flags.TeamID,
		UserID:             flags.UserID,
	}, nil
}

// buildExtractor selects the extraction engine. The selector engine falls
// back to readability for pages its selector chains cannot handle.
func buildExtractor(engine string, converter harvest.Converter) (harvest.Extractor, error) {
	switch engine {
	case "selectors":
		e := goquery.NewExtractor(converter)
		e.Fallback = readability.NewExtractor(converter)
		return e, nil
	case "readability":
		return readability.NewExtractor(converter), nil
	case "trafilatura":
		return trafilatura.NewExtractor(converter), nil
	default:
		return nil, harvest.Errorf(harvest.EINVALID, "unknown extraction engine %q", engine)
	}
}
