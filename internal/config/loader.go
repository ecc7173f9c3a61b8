package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LoadWithViper loads configuration from file, environment, and defaults into
// a fresh viper instance and returns both.
// An explicit path must exist; without one the default file name is
// searched in the working directory and ConfigDir, and a miss is not an error.
func LoadWithViper(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	cfg, err := load(v, path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func load(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("yaml")
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFileName, filepath.Ext(DefaultConfigFileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(ConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, &domain.ConfigError{Path: path, Err: err}
		}
	}

	// Environment variables (REPOCONTEXT_*)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := checkCategoryKeys(v); err != nil {
		return nil, &domain.ConfigError{Path: v.ConfigFileUsed(), Err: err}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &domain.ConfigError{Path: v.ConfigFileUsed(), Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &domain.ConfigError{Path: v.ConfigFileUsed(), Err: err}
	}

	return &cfg, nil
}

// checkCategoryKeys rejects include_patterns keys that are not categories
func checkCategoryKeys(v *viper.Viper) error {
	for key := range v.GetStringMap("include_patterns") {
		if _, err := domain.ParseCategory(key); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	// Pattern defaults
	v.SetDefault("include_patterns.readme", DefaultReadmePatterns)
	v.SetDefault("include_patterns.documentation", DefaultDocumentationPatterns)
	v.SetDefault("include_patterns.examples", DefaultExamplesPatterns)
	v.SetDefault("include_patterns.tests", DefaultTestsPatterns)
	v.SetDefault("exclude_patterns", DefaultExcludePatterns)

	// Limit defaults
	v.SetDefault("max_file_size", DefaultMaxFileSizeKB)
	v.SetDefault("max_files_per_category", DefaultMaxFilesPerCategory)

	// Output defaults
	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("output.file_name", "")
	v.SetDefault("output.include_line_numbers", DefaultIncludeLineNumbers)
	v.SetDefault("output.group_by_category", DefaultGroupByCategory)

	// GitHub defaults
	v.SetDefault("github.use_auth", false)
	v.SetDefault("github.token", "")
	v.SetDefault("github.api_url", "")

	// HTTP defaults
	v.SetDefault("http.timeout", DefaultTimeout)
	v.SetDefault("http.max_retries", DefaultMaxRetries)
	v.SetDefault("http.requests_per_second", DefaultRequestsPerSecond)
	v.SetDefault("http.user_agent", "")
	v.SetDefault("http.proxy_url", "")

	// Logging defaults
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// RenderDefault returns the default configuration as a YAML document
func RenderDefault() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# repocontext configuration\n")
	buf.WriteString("# Patterns use glob syntax; \"**\" spans directories and \"*\" matches dotfiles.\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Default()); err != nil {
		return nil, fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDefault writes the default configuration to path. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	data, err := RenderDefault()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
