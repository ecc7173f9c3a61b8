package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/quantmind-br/repocontext/internal/config"
	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/quantmind-br/repocontext/internal/fetcher"
	"github.com/quantmind-br/repocontext/internal/formatter"
	"github.com/quantmind-br/repocontext/internal/output"
	"github.com/quantmind-br/repocontext/internal/traverser"
	"github.com/quantmind-br/repocontext/internal/utils"
)

// Orchestrator runs one fetch: traverse, render, write
type Orchestrator struct {
	config  *config.Config
	opts    OrchestratorOptions
	fetcher domain.Fetcher
	owned   bool
	logger  *utils.Logger
}

// OrchestratorOptions contains options for creating an orchestrator
type OrchestratorOptions struct {
	domain.CommonOptions
	Config *config.Config
	// Logger overrides the logger built from the logging config
	Logger *utils.Logger
	// Fetcher overrides the HTTP client built from the http config
	Fetcher domain.Fetcher
	// Source overrides the contents API client
	Source         domain.ContentSource
	ProgressOutput io.Writer
	SummaryOutput  io.Writer
}

// Result describes a completed run
type Result struct {
	RunID      string
	OutputPath string
	Bytes      int
	Tokens     int // -1 when counting failed
	Counts     map[domain.Category]int
	Stats      traverser.Stats
	DryRun     bool
	Duration   time.Duration
}

// NewOrchestrator creates a new orchestrator with the given configuration
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := cfg.Logging.Level
		if logLevel == "" {
			logLevel = config.DefaultLogLevel
		}
		logFormat := cfg.Logging.Format
		if logFormat == "" {
			logFormat = config.DefaultLogFormat
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  logFormat,
			Verbose: opts.Verbose,
		})
	}

	o := &Orchestrator{
		config:  cfg,
		opts:    opts,
		fetcher: opts.Fetcher,
		logger:  logger,
	}

	if o.fetcher == nil && opts.Source == nil {
		client, err := fetcher.NewClientFromConfig(cfg.HTTP)
		if err != nil {
			return nil, fmt.Errorf("failed to create fetcher: %w", err)
		}
		o.fetcher = client
		o.owned = true
	}

	return o, nil
}

// Run fetches the repository content and writes the artifact. Nothing is
// written unless traversal and rendering both succeed.
func (o *Orchestrator) Run(ctx context.Context, repoURL string) (*Result, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	logger := o.logger.WithRunID(runID)

	tr, err := traverser.New(repoURL, o.config, traverser.Options{
		Quiet:          o.opts.Quiet,
		Logger:         logger,
		Source:         o.opts.Source,
		Fetcher:        o.fetcher,
		ProgressOutput: o.opts.ProgressOutput,
		SummaryOutput:  o.opts.SummaryOutput,
	})
	if err != nil {
		return nil, err
	}
	defer tr.Close()

	info := tr.Info()
	logger = logger.WithRepo(info.Owner, info.Repo)
	logger.Info().
		Str("url", repoURL).
		Str("format", o.config.Output.Format).
		Int("max_files_per_category", o.config.MaxFilesPerCategory).
		Int("max_file_size_kb", o.config.MaxFileSize).
		Bool("auth", o.config.ResolveToken() != "").
		Msg("Starting repository fetch")

	content, err := tr.FetchRepoContent(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn().Msg("Fetch cancelled")
		}
		return nil, err
	}

	rendered, err := formatter.FormatOutput(content, o.config.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to format output: %w", err)
	}

	writer := output.NewWriter(output.WriterOptions{
		Path:   o.config.Output.FileName,
		DryRun: o.opts.DryRun,
	})
	path, err := writer.Write(ctx, rendered)
	if err != nil {
		return nil, err
	}

	tokens, err := output.CountTokens(rendered)
	if err != nil {
		logger.Warn().Err(err).Msg("Token count unavailable")
		tokens = -1
	}

	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, c := range domain.Categories {
		counts[c] = content.Count(c)
	}

	result := &Result{
		RunID:      runID,
		OutputPath: path,
		Bytes:      len(rendered),
		Tokens:     tokens,
		Counts:     counts,
		Stats:      tr.Stats(),
		DryRun:     o.opts.DryRun,
		Duration:   time.Since(startTime),
	}

	logger.Info().
		Str("output", path).
		Int("bytes", result.Bytes).
		Int("tokens", result.Tokens).
		Int("files", content.Total()).
		Bool("dry_run", result.DryRun).
		Dur("duration", result.Duration).
		Msg("Repository fetch completed")

	return result, nil
}

// Close releases all resources held by the orchestrator
func (o *Orchestrator) Close() error {
	if o.owned && o.fetcher != nil {
		return o.fetcher.Close()
	}
	return nil
}
