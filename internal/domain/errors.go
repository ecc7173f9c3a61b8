package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidRepositoryURL indicates the repository URL does not have the host/owner/repo shape
	ErrInvalidRepositoryURL = errors.New("invalid repository URL")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrNoDownloadURL indicates a file entry has no raw content endpoint
	ErrNoDownloadURL = errors.New("no download URL")

	// ErrWriteFailed indicates writing output failed
	ErrWriteFailed = errors.New("write failed")
)

// RepositoryURLError carries the rejected URL; it matches ErrInvalidRepositoryURL
type RepositoryURLError struct {
	URL    string
	Reason string
}

func (e *RepositoryURLError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v %q: %s", ErrInvalidRepositoryURL, e.URL, e.Reason)
	}
	return fmt.Sprintf("%v %q", ErrInvalidRepositoryURL, e.URL)
}

func (e *RepositoryURLError) Unwrap() error {
	return ErrInvalidRepositoryURL
}

// NewRepositoryURLError creates a new RepositoryURLError
func NewRepositoryURLError(url, reason string) *RepositoryURLError {
	return &RepositoryURLError{URL: url, Reason: reason}
}

// FetchError represents an error during fetching
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 503, 502, 504:
			return true
		}
		if fetchErr.StatusCode >= 520 && fetchErr.StatusCode <= 530 {
			return true
		}
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

// IsNotFound reports whether err is ErrNotFound or a 404 fetch error
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var fetchErr *FetchError
	return errors.As(err, &fetchErr) && fetchErr.StatusCode == http.StatusNotFound
}

// ListingError is a failed directory listing. The traverser absorbs it and
// treats the directory as empty.
type ListingError struct {
	Path string
	Err  error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("listing %q failed: %v", displayPath(e.Path), e.Err)
}

func (e *ListingError) Unwrap() error {
	return e.Err
}

// FileFetchError is a failed raw content download. The traverser absorbs it
// and skips the file without consuming quota.
type FileFetchError struct {
	Path string
	Err  error
}

func (e *FileFetchError) Error() string {
	return fmt.Sprintf("fetching %q failed: %v", e.Path, e.Err)
}

func (e *FileFetchError) Unwrap() error {
	return e.Err
}

// ConfigError is a configuration load failure; fatal before traversal starts
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to load config %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to load config: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TraversalError is a fault that escaped the crawl loop; fatal to the run
type TraversalError struct {
	Err error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("traversal aborted: %v", e.Err)
}

func (e *TraversalError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
