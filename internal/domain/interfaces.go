package domain

import (
	"context"
	"net/http"
)

// ContentSource is the remote repository API the traverser crawls
type ContentSource interface {
	// ListDirectory returns the entries of one directory ("" is the repository root).
	// A directory that does not exist yields an error matching ErrNotFound.
	ListDirectory(ctx context.Context, path string) ([]TreeEntry, error)
	// FetchFile downloads the raw text of a file entry
	FetchFile(ctx context.Context, entry TreeEntry) (string, error)
}

// Fetcher defines the interface for plain HTTP fetching
type Fetcher interface {
	// Get fetches content from a URL
	Get(ctx context.Context, url string) (*Response, error)
	// GetWithHeaders fetches content with custom headers
	GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*Response, error)
	// Transport returns an http.RoundTripper for integration with other HTTP clients (e.g., go-github)
	Transport() http.RoundTripper
	// Close releases resources
	Close() error
}
