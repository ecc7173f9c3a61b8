package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/repocontext/internal/config"
	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/quantmind-br/repocontext/pkg/version"
	"github.com/quantmind-br/repocontext/tests/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, dir, apiURL string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`github:
  api_url: %q
http:
  max_retries: 1
logging:
  level: error
output:
  include_line_numbers: false
`, apiURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newRepo(t *testing.T) *testutil.FakeRepo {
	t.Helper()
	repo := testutil.NewFakeRepo(t, "acme", "widget")
	repo.AddFile("README.md", "# Widget")
	repo.AddFile("examples/demo/main.go", "package main")
	return repo
}

// TestFetchCommand tests fetching into a markdown file
func TestFetchCommand(t *testing.T) {
	repo := newRepo(t)
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, repo.APIURL())
	outPath := filepath.Join(dir, "context.md")

	out, err := execute(t, "fetch", repo.RepoURL(), "-c", cfgPath, "-o", outPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Processing Summary:")
	assert.Contains(t, out, "✓ README.md")
	assert.Contains(t, out, "✓ Content saved to: "+outPath)
	assert.Contains(t, out, "✓ Total tokens: ")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Readme\n")
	assert.Contains(t, string(data), "File: examples/demo/main.go\n```\npackage main\n```")
}

// TestFetchCommand_Flags tests command-line overrides
func TestFetchCommand_Flags(t *testing.T) {
	t.Run("format json with quiet", func(t *testing.T) {
		repo := newRepo(t)
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, repo.APIURL())
		outPath := filepath.Join(dir, "context.json")

		out, err := execute(t, "fetch", repo.RepoURL(), "-c", cfgPath, "-o", outPath, "--format", "json", "-q")
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(outPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"readme": [`)
	})

	t.Run("dry run", func(t *testing.T) {
		repo := newRepo(t)
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, repo.APIURL())
		outPath := filepath.Join(dir, "context.md")

		out, err := execute(t, "fetch", repo.RepoURL(), "-c", cfgPath, "-o", outPath, "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "Dry run")
		assert.NoFileExists(t, outPath)
	})

	t.Run("token is forwarded", func(t *testing.T) {
		repo := newRepo(t)
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, repo.APIURL())

		_, err := execute(t, "fetch", repo.RepoURL(), "-c", cfgPath, "-o", filepath.Join(dir, "c.md"), "-q", "--token", "s3cret")
		require.NoError(t, err)
		for _, h := range repo.APIAuthHeaders() {
			assert.Equal(t, "Bearer s3cret", h)
		}
		for _, h := range repo.DownloadAuthHeaders() {
			assert.Empty(t, h)
		}
	})
}

// TestFetchCommand_Errors tests fatal failures
func TestFetchCommand_Errors(t *testing.T) {
	t.Run("missing argument", func(t *testing.T) {
		_, err := execute(t, "fetch")
		assert.Error(t, err)
	})

	t.Run("invalid URL", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, "http://127.0.0.1:1/")
		outPath := filepath.Join(dir, "context.md")

		_, err := execute(t, "fetch", "not-a-url", "-c", cfgPath, "-o", outPath)
		assert.ErrorIs(t, err, domain.ErrInvalidRepositoryURL)
		assert.NoFileExists(t, outPath)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := execute(t, "fetch", "https://github.com/acme/widget", "-c", filepath.Join(t.TempDir(), "nope.yaml"))
		var cfgErr *domain.ConfigError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("unsupported format", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := writeConfig(t, dir, "http://127.0.0.1:1/")

		_, err := execute(t, "fetch", "https://github.com/acme/widget", "-c", cfgPath, "--format", "xml")
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

// TestApplyFlags tests flag layering over the loaded config
func TestApplyFlags(t *testing.T) {
	t.Run("format switches the default file name", func(t *testing.T) {
		cfg := config.Default()
		require.NoError(t, applyFlags(cfg, fetchFlags{format: "json"}))
		assert.Equal(t, config.FormatJSON, cfg.Output.Format)
		assert.Equal(t, "repo-context.json", cfg.Output.FileName)
	})

	t.Run("format keeps a custom file name", func(t *testing.T) {
		cfg := config.Default()
		cfg.Output.FileName = "mine.md"
		require.NoError(t, applyFlags(cfg, fetchFlags{format: "json"}))
		assert.Equal(t, "mine.md", cfg.Output.FileName)
	})

	t.Run("token enables auth", func(t *testing.T) {
		cfg := config.Default()
		require.NoError(t, applyFlags(cfg, fetchFlags{token: "abc"}))
		assert.True(t, cfg.GitHub.UseAuth)
		assert.Equal(t, "abc", cfg.ResolveToken())
	})
}

// TestInitConfigCommand tests writing the default configuration
func TestInitConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repo-fetch-config.yaml")

	out, err := execute(t, "init-config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to "+path)

	cfg, _, err := config.LoadWithViper(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().IncludePatterns, cfg.IncludePatterns)

	_, err = execute(t, "init-config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "init-config", path, "--force")
	assert.NoError(t, err)
}

// TestVersionCommand tests version output
func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Full()+"\n", out)
}
