// Package patterns implements the glob matching used to exclude and
// categorize repository paths.
//
// Patterns follow shell-glob semantics with "**" spanning nested
// directories. Unlike most shells, "*" and "**" also match names that begin
// with a dot, so ".github/**" and "**/*" see hidden files.
package patterns

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/quantmind-br/repocontext/internal/domain"
)

// Matches reports whether any pattern matches path. Evaluation stops at the
// first match; a malformed pattern never matches.
func Matches(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// IsExcluded reports whether path matches one of the exclude patterns
func IsExcluded(path string, excludePatterns []string) bool {
	return Matches(path, excludePatterns)
}

// Classify returns the first category, in priority order, whose include
// patterns match path.
func Classify(path string, include map[domain.Category][]string) (domain.Category, bool) {
	for _, category := range domain.Categories {
		if Matches(path, include[category]) {
			return category, true
		}
	}
	return 0, false
}

// Validate returns an error for the first syntactically invalid pattern
func Validate(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return nil
}
