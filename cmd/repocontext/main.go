package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/repocontext/internal/app"
	"github.com/quantmind-br/repocontext/internal/config"
	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/quantmind-br/repocontext/internal/output"
	"github.com/quantmind-br/repocontext/pkg/version"
)

func main() {
	// A missing .env is fine; GITHUB_TOKEN may come from the environment.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "repocontext",
		Short: "Collect a repository's docs, examples and tests into one file",
		Long: `repocontext walks a GitHub repository through the contents API, picks the
files that match the configured readme, documentation, examples and tests
patterns, and writes them as a single Markdown or JSON document.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newFetchCmd())
	root.AddCommand(newInitConfigCmd())
	root.AddCommand(newVersionCmd())
	return root
}

type fetchFlags struct {
	configFile string
	output     string
	format     string
	token      string
	quiet      bool
	verbose    bool
	dryRun     bool
}

func newFetchCmd() *cobra.Command {
	var flags fetchFlags

	cmd := &cobra.Command{
		Use:   "fetch <repo-url>",
		Short: "Fetch categorized content from a repository",
		Example: `  repocontext fetch https://github.com/spf13/cobra
  repocontext fetch https://github.com/spf13/cobra/tree/main/doc --format json -o cobra.json
  repocontext fetch https://github.example.com/team/service -c repo-fetch-config.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configFile, "config", "c", "", "config file (default is ./"+config.DefaultConfigFileName+" or ~/.repocontext/"+config.DefaultConfigFileName+")")
	f.StringVarP(&flags.output, "output", "o", "", "output file (overrides output.file_name)")
	f.StringVar(&flags.format, "format", "", "output format: markdown or json")
	f.StringVar(&flags.token, "token", "", "GitHub token (enables authentication)")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress progress and summary output")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	f.BoolVar(&flags.dryRun, "dry-run", false, "run without writing the output file")

	return cmd
}

func runFetch(cmd *cobra.Command, repoURL string, flags fetchFlags) error {
	cfg, _, err := config.LoadWithViper(flags.configFile)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, flags); err != nil {
		return err
	}

	orch, err := app.NewOrchestrator(app.OrchestratorOptions{
		CommonOptions: domain.CommonOptions{
			Verbose: flags.verbose,
			Quiet:   flags.quiet,
			DryRun:  flags.dryRun,
		},
		Config:         cfg,
		ProgressOutput: cmd.ErrOrStderr(),
		SummaryOutput:  cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	defer orch.Close()

	result, err := orch.Run(cmd.Context(), repoURL)
	if err != nil {
		return err
	}

	if !flags.quiet {
		output.PrintResult(cmd.OutOrStdout(), result.OutputPath, result.Bytes, result.Tokens, result.DryRun)
	}
	return nil
}

// applyFlags layers command-line overrides on top of the loaded config
func applyFlags(cfg *config.Config, flags fetchFlags) error {
	if flags.format != "" {
		previous := cfg.Output.Format
		cfg.Output.Format = flags.format
		if flags.output == "" && cfg.Output.FileName == config.DefaultFileName(previous) {
			cfg.Output.FileName = ""
		}
	}
	if flags.output != "" {
		cfg.Output.FileName = flags.output
	}
	if flags.token != "" {
		cfg.GitHub.UseAuth = true
		cfg.GitHub.Token = flags.token
	}
	return cfg.Validate()
}

func newInitConfigCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration file",
		Long: `Writes the built-in configuration as YAML so it can be edited. The file is
written to ./` + config.DefaultConfigFileName + ` unless a path is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigFileName
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, version.Full())
}
