package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/quantmind-br/repocontext/internal/patterns"
)

// Output formats
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Config represents the application configuration
type Config struct {
	IncludePatterns     IncludePatterns `mapstructure:"include_patterns" yaml:"include_patterns"`
	ExcludePatterns     []string        `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	MaxFileSize         int             `mapstructure:"max_file_size" yaml:"max_file_size"` // kilobytes
	MaxFilesPerCategory int             `mapstructure:"max_files_per_category" yaml:"max_files_per_category"`
	Output              OutputConfig    `mapstructure:"output" yaml:"output"`
	GitHub              GitHubConfig    `mapstructure:"github" yaml:"github"`
	HTTP                HTTPConfig      `mapstructure:"http" yaml:"http"`
	Logging             LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// IncludePatterns maps each category to its glob patterns
type IncludePatterns struct {
	Readme        []string `mapstructure:"readme" yaml:"readme"`
	Documentation []string `mapstructure:"documentation" yaml:"documentation"`
	Examples      []string `mapstructure:"examples" yaml:"examples"`
	Tests         []string `mapstructure:"tests" yaml:"tests"`
}

// ByCategory returns the patterns keyed by category
func (p IncludePatterns) ByCategory() map[domain.Category][]string {
	return map[domain.Category][]string{
		domain.CategoryReadme:        p.Readme,
		domain.CategoryDocumentation: p.Documentation,
		domain.CategoryExamples:      p.Examples,
		domain.CategoryTests:         p.Tests,
	}
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	Format             string `mapstructure:"format" yaml:"format"`
	FileName           string `mapstructure:"file_name" yaml:"file_name"`
	IncludeLineNumbers bool   `mapstructure:"include_line_numbers" yaml:"include_line_numbers"`
	GroupByCategory    bool   `mapstructure:"group_by_category" yaml:"group_by_category"`
}

// GitHubConfig contains repository API settings
type GitHubConfig struct {
	UseAuth bool   `mapstructure:"use_auth" yaml:"use_auth"`
	Token   string `mapstructure:"token" yaml:"token"`
	APIURL  string `mapstructure:"api_url" yaml:"api_url"`
}

// HTTPConfig contains transport settings
type HTTPConfig struct {
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries" yaml:"max_retries"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	ProxyURL          string        `mapstructure:"proxy_url" yaml:"proxy_url"` // http, https or socks5
}

// MarshalYAML renders the timeout as a duration string instead of nanoseconds
func (h HTTPConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Timeout           string  `yaml:"timeout"`
		MaxRetries        int     `yaml:"max_retries"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		UserAgent         string  `yaml:"user_agent"`
		ProxyURL          string  `yaml:"proxy_url"`
	}{
		Timeout:           h.Timeout.String(),
		MaxRetries:        h.MaxRetries,
		RequestsPerSecond: h.RequestsPerSecond,
		UserAgent:         h.UserAgent,
		ProxyURL:          h.ProxyURL,
	}, nil
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MaxFileSizeBytes returns the file size limit in bytes
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSize) * 1024
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Zero is a real limit: nothing is accepted.
	if c.MaxFileSize < 0 {
		c.MaxFileSize = DefaultMaxFileSizeKB
	}
	if c.MaxFilesPerCategory < 0 {
		c.MaxFilesPerCategory = DefaultMaxFilesPerCategory
	}
	if c.HTTP.Timeout < time.Second {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.MaxRetries < 1 {
		c.HTTP.MaxRetries = DefaultMaxRetries
	}
	if c.HTTP.RequestsPerSecond <= 0 {
		c.HTTP.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case "":
		c.Output.Format = DefaultOutputFormat
	case FormatMarkdown, FormatJSON:
	default:
		return domain.NewValidationError("output.format", fmt.Sprintf("unsupported format %q (want markdown or json)", c.Output.Format))
	}
	if c.Output.FileName == "" {
		c.Output.FileName = DefaultFileName(c.Output.Format)
	}

	if c.Logging.Format != "pretty" && c.Logging.Format != "json" {
		return domain.NewValidationError("logging.format", fmt.Sprintf("unsupported format %q (want pretty or json)", c.Logging.Format))
	}

	for category, list := range c.IncludePatterns.ByCategory() {
		if err := patterns.Validate(list); err != nil {
			return domain.NewValidationError("include_patterns."+category.String(), err.Error())
		}
	}
	if err := patterns.Validate(c.ExcludePatterns); err != nil {
		return domain.NewValidationError("exclude_patterns", err.Error())
	}

	if c.GitHub.APIURL != "" {
		u, err := url.Parse(c.GitHub.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return domain.NewValidationError("github.api_url", fmt.Sprintf("not an absolute URL: %q", c.GitHub.APIURL))
		}
	}
	if c.HTTP.ProxyURL != "" {
		u, err := url.Parse(c.HTTP.ProxyURL)
		if err != nil || u.Host == "" {
			return domain.NewValidationError("http.proxy_url", fmt.Sprintf("not an absolute URL: %q", c.HTTP.ProxyURL))
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return domain.NewValidationError("http.proxy_url", fmt.Sprintf("unsupported proxy scheme %q (want http, https or socks5)", u.Scheme))
		}
	}
	return nil
}

// ResolveToken returns the bearer credential to forward, or "" when
// authentication is disabled or no token is available.
func (c *Config) ResolveToken() string {
	if !c.GitHub.UseAuth {
		return ""
	}
	if c.GitHub.Token != "" {
		return c.GitHub.Token
	}
	return lookupEnv(TokenEnvVar)
}
