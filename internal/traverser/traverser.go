// Package traverser walks a remote repository breadth-first and collects
// the files that match the configured categories.
package traverser

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/quantmind-br/repocontext/internal/config"
	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/quantmind-br/repocontext/internal/fetcher"
	"github.com/quantmind-br/repocontext/internal/formatter"
	"github.com/quantmind-br/repocontext/internal/github"
	"github.com/quantmind-br/repocontext/internal/output"
	"github.com/quantmind-br/repocontext/internal/patterns"
	"github.com/quantmind-br/repocontext/internal/utils"
)

// SkipReason explains why an entry was not accepted
type SkipReason string

const (
	SkipExcluded      SkipReason = "excluded"
	SkipUnmatched     SkipReason = "unmatched"
	SkipQuota         SkipReason = "quota"
	SkipNoDownloadURL SkipReason = "no_download_url"
	SkipTooLarge      SkipReason = "too_large"
	SkipFetchFailed   SkipReason = "fetch_failed"
)

// Stats counts what happened during one traversal
type Stats struct {
	DirectoriesListed int
	ListingFailures   int
	NotFound          int
	FilesAccepted     int
	Skipped           map[SkipReason]int
}

// Options contains options for creating a Traverser
type Options struct {
	Quiet  bool
	Logger *utils.Logger
	// Source replaces the contents API client built from the URL
	Source domain.ContentSource
	// Fetcher is used to build the contents API client; one is created from
	// the HTTP config when nil
	Fetcher domain.Fetcher
	// ProgressOutput receives the crawl spinner (os.Stderr when nil)
	ProgressOutput io.Writer
	// SummaryOutput receives the processing summary (os.Stdout when nil)
	SummaryOutput io.Writer
}

// Traverser fetches the categorized content of one repository
type Traverser struct {
	info    *github.RepoInfo
	cfg     *config.Config
	source  domain.ContentSource
	owned   domain.Fetcher
	logger  *utils.Logger
	quiet   bool
	progW   io.Writer
	summW   io.Writer
	include map[domain.Category][]string

	processed []domain.ProcessedFile
	stats     Stats
}

// New validates repoURL and prepares a traverser. No network request is made.
func New(repoURL string, cfg *config.Config, opts Options) (*Traverser, error) {
	info, err := github.ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	t := &Traverser{
		info:    info,
		cfg:     cfg,
		source:  opts.Source,
		logger:  logger.WithComponent("traverser").WithRepo(info.Owner, info.Repo),
		quiet:   opts.Quiet,
		progW:   opts.ProgressOutput,
		summW:   opts.SummaryOutput,
		include: cfg.IncludePatterns.ByCategory(),
	}
	if t.summW == nil {
		t.summW = os.Stdout
	}

	if t.source == nil {
		f := opts.Fetcher
		if f == nil {
			client, err := fetcher.NewClientFromConfig(cfg.HTTP)
			if err != nil {
				return nil, fmt.Errorf("create fetcher: %w", err)
			}
			f = client
			t.owned = client
		}

		source, err := github.NewClient(info, github.ClientOptions{
			Fetcher: f,
			Token:   cfg.ResolveToken(),
			APIURL:  cfg.GitHub.APIURL,
			Logger:  logger,
		})
		if err != nil {
			t.Close()
			return nil, err
		}
		t.source = source
	}

	return t, nil
}

// Info returns the parsed repository coordinates
func (t *Traverser) Info() *github.RepoInfo {
	return t.info
}

// FetchRepoContent walks the repository and returns the accepted files,
// formatted, grouped by category in discovery order.
//
// Directory listings that fail are treated as empty and files that cannot be
// downloaded are skipped; the only fatal outcome is cancellation of ctx.
// A request that times out while ctx is still live counts as a per-item
// failure.
func (t *Traverser) FetchRepoContent(ctx context.Context) (*domain.RepoContent, error) {
	t.processed = nil
	t.stats = Stats{Skipped: make(map[SkipReason]int)}

	var bar *progressbar.ProgressBar
	if !t.quiet {
		bar = utils.NewProgressBar(t.progW, -1, utils.DescCrawling)
	}

	t.logger.Info().Str("path", displayPath(t.info.SubPath)).Msg("Starting traversal")

	content, err := t.walk(ctx, bar)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return nil, err
	}

	t.logger.Info().
		Int("files", t.stats.FilesAccepted).
		Int("directories", t.stats.DirectoriesListed).
		Int("listing_failures", t.stats.ListingFailures).
		Msg("Traversal complete")

	if !t.quiet {
		output.PrintSummary(t.summW, t.processed)
	}
	return content, nil
}

func (t *Traverser) walk(ctx context.Context, bar *progressbar.ProgressBar) (*domain.RepoContent, error) {
	content := domain.NewRepoContent()
	counts := make(map[domain.Category]int, len(domain.Categories))
	maxFiles := t.cfg.MaxFilesPerCategory
	maxSize := t.cfg.MaxFileSizeBytes()
	saturated := false

	root := t.info.SubPath
	queue := []string{root}
	seen := map[string]bool{root: true}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, &domain.TraversalError{Err: err}
		}

		dir := queue[0]
		queue = queue[1:]

		if bar != nil {
			bar.Describe(utils.DescCrawling + " " + displayPath(dir))
			_ = bar.Add(1)
		}

		entries, err := t.source.ListDirectory(ctx, dir)
		switch {
		case err == nil:
			t.stats.DirectoriesListed++
		case ctx.Err() != nil:
			return nil, &domain.TraversalError{Err: ctx.Err()}
		case domain.IsNotFound(err):
			t.stats.NotFound++
			t.logger.Debug().Str("path", displayPath(dir)).Msg("Directory not found")
			continue
		default:
			t.stats.ListingFailures++
			t.logger.Warn().Err(&domain.ListingError{Path: dir, Err: err}).Msg("Skipping directory")
			continue
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, &domain.TraversalError{Err: err}
			}

			if patterns.IsExcluded(entry.Path, t.cfg.ExcludePatterns) {
				t.skip(SkipExcluded, entry)
				continue
			}

			if entry.IsDir() {
				if !seen[entry.Path] {
					seen[entry.Path] = true
					queue = append(queue, entry.Path)
				}
				continue
			}

			category, ok := patterns.Classify(entry.Path, t.include)
			if !ok {
				t.skip(SkipUnmatched, entry)
				continue
			}

			if counts[category] >= maxFiles {
				t.skip(SkipQuota, entry)
				continue
			}

			if entry.DownloadURL == "" {
				t.skip(SkipNoDownloadURL, entry)
				continue
			}
			if entry.Size > maxSize {
				t.skip(SkipTooLarge, entry)
				continue
			}

			if bar != nil {
				bar.Describe(utils.DescFetching + " " + entry.Path)
			}
			text, err := t.source.FetchFile(ctx, entry)
			if err != nil {
				if ctx.Err() != nil {
					return nil, &domain.TraversalError{Err: ctx.Err()}
				}
				t.stats.Skipped[SkipFetchFailed]++
				t.logger.Warn().Err(&domain.FileFetchError{Path: entry.Path, Err: err}).Msg("Skipping file")
				continue
			}

			content.Append(category, formatter.FormatFileContent(entry.Path, text, t.cfg.Output.IncludeLineNumbers))
			counts[category]++
			t.stats.FilesAccepted++
			t.processed = append(t.processed, domain.ProcessedFile{Category: category, Path: entry.Path})

			t.logger.Debug().
				Str("path", entry.Path).
				Str("category", category.String()).
				Int("count", counts[category]).
				Msg("Accepted file")

			if !saturated && allSaturated(counts, maxFiles) {
				saturated = true
				t.logger.Debug().Msg("All category quotas filled, continuing walk")
			}
		}
	}

	return content, nil
}

// ProcessedFiles returns the accepted files of the last traversal in order
func (t *Traverser) ProcessedFiles() []domain.ProcessedFile {
	return append([]domain.ProcessedFile(nil), t.processed...)
}

// Stats returns the counters of the last traversal
func (t *Traverser) Stats() Stats {
	s := t.stats
	s.Skipped = make(map[SkipReason]int, len(t.stats.Skipped))
	for k, v := range t.stats.Skipped {
		s.Skipped[k] = v
	}
	return s
}

// Close releases the fetcher created by New, if any
func (t *Traverser) Close() error {
	if t.owned != nil {
		err := t.owned.Close()
		t.owned = nil
		return err
	}
	return nil
}

func (t *Traverser) skip(reason SkipReason, entry domain.TreeEntry) {
	t.stats.Skipped[reason]++
	if reason == SkipUnmatched || reason == SkipExcluded {
		return
	}
	t.logger.Debug().Str("path", entry.Path).Str("reason", string(reason)).Msg("Skipping file")
}

func allSaturated(counts map[domain.Category]int, maxFiles int) bool {
	for _, c := range domain.Categories {
		if counts[c] < maxFiles {
			return false
		}
	}
	return true
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
