package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v80/github"
	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/quantmind-br/repocontext/internal/fetcher"
	"github.com/quantmind-br/repocontext/internal/utils"
	"golang.org/x/oauth2"
)

// Client lists repository directories and downloads raw files.
// It implements domain.ContentSource.
type Client struct {
	gh      *gh.Client
	fetcher domain.Fetcher
	info    *RepoInfo
	logger  *utils.Logger
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	// Fetcher carries all HTTP traffic (required)
	Fetcher domain.Fetcher
	// Token is forwarded as a bearer credential on API requests when set
	Token string
	// APIURL overrides the API root derived from the repository host
	APIURL string
	Logger *utils.Logger
}

var _ domain.ContentSource = (*Client)(nil)

// NewClient creates a contents API client for the repository
func NewClient(info *RepoInfo, opts ClientOptions) (*Client, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("github client requires a fetcher")
	}

	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = APIBaseURL(info)
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", apiURL, err)
	}

	transport := opts.Fetcher.Transport()
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
			Base:   transport,
		}
	}

	client := gh.NewClient(&http.Client{Transport: transport})
	client.BaseURL = baseURL

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	return &Client{
		gh:      client,
		fetcher: opts.Fetcher,
		info:    info,
		logger:  logger.WithComponent("github"),
	}, nil
}

// ListDirectory returns the entries of one directory ("" is the repository
// root). A path that resolves to a single file yields a one-entry listing.
func (c *Client) ListDirectory(ctx context.Context, dirPath string) ([]domain.TreeEntry, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: c.info.Ref}
	file, dir, resp, err := c.gh.Repositories.GetContents(ctx, c.info.Owner, c.info.Repo, dirPath, opts)
	if err != nil {
		return nil, c.wrapError(err, dirPath)
	}
	c.logRate(resp)

	if file != nil {
		return []domain.TreeEntry{toEntry(file)}, nil
	}

	entries := make([]domain.TreeEntry, 0, len(dir))
	for _, item := range dir {
		if item == nil {
			continue
		}
		entries = append(entries, toEntry(item))
	}
	return entries, nil
}

// FetchFile downloads the raw text behind the entry's download URL.
// The request carries no credential.
func (c *Client) FetchFile(ctx context.Context, entry domain.TreeEntry) (string, error) {
	if entry.DownloadURL == "" {
		return "", domain.ErrNoDownloadURL
	}

	resp, err := c.fetcher.Get(ctx, entry.DownloadURL)
	if err != nil {
		return "", err
	}
	return fetcher.DecodeText(resp.Body, resp.ContentType), nil
}

// Info returns the repository the client is bound to
func (c *Client) Info() *RepoInfo {
	return c.info
}

// wrapError converts go-github errors to domain errors
func (c *Client) wrapError(err error, dirPath string) error {
	if ctxErr := contextErr(err); ctxErr != nil {
		return ctxErr
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("contents %q: %w", dirPath, domain.ErrNotFound)
	}

	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	return fmt.Errorf("list contents: %w", err)
}

func (c *Client) logRate(resp *gh.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}
	c.logger.Debug().
		Int("remaining", resp.Rate.Remaining).
		Int("limit", resp.Rate.Limit).
		Msg("API rate limit")
}

// contextErr returns the context error when err stems from cancellation
func contextErr(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return context.DeadlineExceeded
	}
	return nil
}

func toEntry(item *gh.RepositoryContent) domain.TreeEntry {
	return domain.TreeEntry{
		Type:        domain.EntryType(item.GetType()),
		Name:        item.GetName(),
		Path:        item.GetPath(),
		Size:        int64(item.GetSize()),
		DownloadURL: item.GetDownloadURL(),
	}
}
