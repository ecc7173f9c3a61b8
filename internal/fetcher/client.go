package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/quantmind-br/repocontext/internal/config"
	"github.com/quantmind-br/repocontext/internal/domain"
	"golang.org/x/time/rate"
)

// Client is an HTTP client built on tls-client with rate limiting and retries
type Client struct {
	tlsClient tls_client.HttpClient
	userAgent string
	retrier   *Retrier
	limiter   *rate.Limiter
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout           time.Duration
	MaxRetries        int
	RetryInterval     time.Duration
	RequestsPerSecond float64 // <= 0 disables throttling
	UserAgent         string
	ProxyURL          string
}

// DefaultRetryInterval is the first backoff wait after a retryable failure
const DefaultRetryInterval = time.Second

// NewClientFromConfig creates a client from the http section of the config
func NewClientFromConfig(cfg config.HTTPConfig) (*Client, error) {
	return NewClient(ClientOptions{
		Timeout:           cfg.Timeout,
		MaxRetries:        cfg.MaxRetries,
		RetryInterval:     DefaultRetryInterval,
		RequestsPerSecond: cfg.RequestsPerSecond,
		UserAgent:         cfg.UserAgent,
		ProxyURL:          cfg.ProxyURL,
	})
}

// NewClient creates a new HTTP client
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(opts.Timeout.Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_131),
	}

	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      opts.MaxRetries,
		InitialInterval: opts.RetryInterval,
		MaxInterval:     30 * time.Second,
	})

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		tlsClient: tlsClient,
		userAgent: opts.UserAgent,
		retrier:   retrier,
		limiter:   rate.NewLimiter(limit, 1),
	}, nil
}

// Get fetches content from a URL
func (c *Client) Get(ctx context.Context, url string) (*domain.Response, error) {
	return c.GetWithHeaders(ctx, url, nil)
}

// GetWithHeaders fetches content with custom headers. Status codes of 400
// and above are returned as *domain.FetchError.
func (c *Client) GetWithHeaders(ctx context.Context, url string, extraHeaders map[string]string) (*domain.Response, error) {
	resp, err := c.roundTrip(ctx, url, extraHeaders)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, domain.NewFetchError(url, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	return resp, nil
}

// roundTrip performs a throttled GET with retry. When retries are exhausted on
// a retryable status, the last response is returned alongside the error.
func (c *Client) roundTrip(ctx context.Context, url string, extraHeaders map[string]string) (*domain.Response, error) {
	return RetryWithValue(ctx, c.retrier, func() (*domain.Response, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return c.doRequest(ctx, url, extraHeaders)
	})
}

// doRequest performs the actual HTTP request
func (c *Client) doRequest(ctx context.Context, targetURL string, extraHeaders map[string]string) (*domain.Response, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range DefaultHeaders(c.userAgent) {
		req.Header.Set(k, v)
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.tlsClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			err = fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		return nil, &domain.FetchError{
			URL: targetURL,
			Err: fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Convert fhttp.Header to http.Header
	httpHeaders := make(http.Header)
	for k, v := range resp.Header {
		httpHeaders[k] = v
	}

	result := &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     httpHeaders,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         targetURL,
	}

	if ShouldRetryStatus(resp.StatusCode) {
		return result, &domain.RetryableError{
			Err:        &domain.FetchError{URL: targetURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)},
			RetryAfter: int(ParseRetryAfter(resp.Header.Get("Retry-After")).Seconds()),
		}
	}

	return result, nil
}

// Close releases client resources
func (c *Client) Close() error {
	// tls-client holds no resources that need explicit release
	return nil
}
