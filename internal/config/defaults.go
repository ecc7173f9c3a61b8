package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Traversal defaults
	DefaultMaxFileSizeKB       = 100
	DefaultMaxFilesPerCategory = 10

	// Output defaults
	DefaultOutputFormat       = FormatMarkdown
	DefaultIncludeLineNumbers = true
	DefaultGroupByCategory    = true

	// HTTP defaults
	DefaultTimeout           = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultRequestsPerSecond = 5.0

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// DefaultConfigFileName is written by init-config and searched for when no --config is given
	DefaultConfigFileName = "repo-fetch-config.yaml"

	// TokenEnvVar supplies the GitHub token when github.token is empty
	TokenEnvVar = "GITHUB_TOKEN"

	// EnvPrefix prefixes environment overrides (REPOCONTEXT_OUTPUT_FORMAT, ...)
	EnvPrefix = "REPOCONTEXT"
)

// Default include patterns per category
var (
	DefaultReadmePatterns = []string{
		"README*",
		"readme*",
		"**/README*",
	}
	DefaultDocumentationPatterns = []string{
		"docs/**",
		"doc/**",
		"documentation/**",
		"*.md",
		"**/*.mdx",
	}
	DefaultExamplesPatterns = []string{
		"examples/**",
		"example/**",
		"samples/**",
		"demo/**",
		"_examples/**",
	}
	DefaultTestsPatterns = []string{
		"test/**",
		"tests/**",
		"__tests__/**",
		"**/*_test.go",
		"**/*.test.*",
		"**/*.spec.*",
		"**/test_*.py",
	}
)

// DefaultExcludePatterns are checked before categorization
var DefaultExcludePatterns = []string{
	".git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/*.lock",
	"**/package-lock.json",
	"**/*.min.js",
	"**/*.{png,jpg,jpeg,gif,ico,svg,pdf,zip,gz,tar}",
}

var lookupEnv = os.Getenv

// DefaultFileName returns the artifact name used when output.file_name is empty
func DefaultFileName(format string) string {
	if format == FormatJSON {
		return "repo-context.json"
	}
	return "repo-context.md"
}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".repocontext"
	}
	return filepath.Join(home, ".repocontext")
}

// ConfigFilePath returns the config file path in the config directory
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), DefaultConfigFileName)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		IncludePatterns: IncludePatterns{
			Readme:        clone(DefaultReadmePatterns),
			Documentation: clone(DefaultDocumentationPatterns),
			Examples:      clone(DefaultExamplesPatterns),
			Tests:         clone(DefaultTestsPatterns),
		},
		ExcludePatterns:     clone(DefaultExcludePatterns),
		MaxFileSize:         DefaultMaxFileSizeKB,
		MaxFilesPerCategory: DefaultMaxFilesPerCategory,
		Output: OutputConfig{
			Format:             DefaultOutputFormat,
			FileName:           DefaultFileName(DefaultOutputFormat),
			IncludeLineNumbers: DefaultIncludeLineNumbers,
			GroupByCategory:    DefaultGroupByCategory,
		},
		HTTP: HTTPConfig{
			Timeout:           DefaultTimeout,
			MaxRetries:        DefaultMaxRetries,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
