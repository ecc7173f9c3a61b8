package domain

// CommonOptions contains run-wide switches shared by the orchestrator and the CLI.
type CommonOptions struct {
	Verbose bool
	Quiet   bool
	DryRun  bool
}
