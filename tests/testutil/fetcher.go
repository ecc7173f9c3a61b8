package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/quantmind-br/repocontext/internal/domain"
)

// SimpleFetcher is a domain.Fetcher over net/http without throttling or
// retries, for tests that only need plain request/response behavior.
type SimpleFetcher struct {
	client *http.Client
}

// NewSimpleFetcher returns a fetcher backed by http.DefaultTransport
func NewSimpleFetcher() *SimpleFetcher {
	return &SimpleFetcher{client: &http.Client{Transport: http.DefaultTransport}}
}

// Get fetches a URL; statuses of 400 and above become *domain.FetchError.
func (f *SimpleFetcher) Get(ctx context.Context, url string) (*domain.Response, error) {
	return f.GetWithHeaders(ctx, url, nil)
}

// GetWithHeaders fetches a URL with extra headers
func (f *SimpleFetcher) GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*domain.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domain.NewFetchError(url, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, domain.NewFetchError(url, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	return &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         url,
	}, nil
}

// Transport returns the default HTTP transport
func (f *SimpleFetcher) Transport() http.RoundTripper {
	return http.DefaultTransport
}

// Close releases resources (no-op)
func (f *SimpleFetcher) Close() error {
	return nil
}
