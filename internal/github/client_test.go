package github

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/quantmind-br/repocontext/internal/fetcher"
	"github.com/quantmind-br/repocontext/tests/mocks"
	"github.com/quantmind-br/repocontext/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFakeClient(t *testing.T, repo *testutil.FakeRepo, token string, ref string) *Client {
	t.Helper()

	f, err := fetcher.NewClient(fetcher.ClientOptions{
		Timeout:       5 * time.Second,
		MaxRetries:    1,
		RetryInterval: time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	client, err := NewClient(&RepoInfo{Owner: repo.Owner, Repo: repo.Repo, Ref: ref}, ClientOptions{
		Fetcher: f,
		Token:   token,
		APIURL:  repo.APIURL(),
		Logger:  testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("requires a fetcher", func(t *testing.T) {
		_, err := NewClient(&RepoInfo{Owner: "o", Repo: "r"}, ClientOptions{})
		assert.Error(t, err)
	})

	t.Run("derives the API root from the host", func(t *testing.T) {
		client, err := NewClient(&RepoInfo{Scheme: "https", Host: "ghe.example.com", Owner: "o", Repo: "r"}, ClientOptions{
			Fetcher: testutil.NewSimpleFetcher(),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://ghe.example.com/api/v3/", client.gh.BaseURL.String())
	})

	t.Run("override gains a trailing slash", func(t *testing.T) {
		client, err := NewClient(&RepoInfo{Owner: "o", Repo: "r"}, ClientOptions{
			Fetcher: testutil.NewSimpleFetcher(),
			APIURL:  "http://localhost:9999/api",
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9999/api/", client.gh.BaseURL.String())
	})
}

func TestClient_ListDirectory(t *testing.T) {
	repo := testutil.NewFakeRepo(t, "octocat", "hello-world")
	repo.AddFile("README.md", "# Hello")
	repo.AddFile("docs/guide.md", "guide")
	repo.AddFile("docs/api/ref.md", "ref")
	repo.AddEntry("", testutil.Entry{Type: "submodule", Name: "vendor-lib", Path: "vendor-lib"})

	client := newFakeClient(t, repo, "", "")
	ctx := context.Background()

	t.Run("root listing", func(t *testing.T) {
		entries, err := client.ListDirectory(ctx, "")
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, domain.TreeEntry{
			Type:        domain.EntryTypeFile,
			Name:        "README.md",
			Path:        "README.md",
			Size:        7,
			DownloadURL: repo.DownloadURL("README.md"),
		}, entries[0])
		assert.Equal(t, domain.EntryTypeDir, entries[1].Type)
		assert.Equal(t, "docs", entries[1].Path)
		assert.Empty(t, entries[1].DownloadURL)
		assert.Equal(t, domain.EntryTypeSubmodule, entries[2].Type)
	})

	t.Run("nested listing", func(t *testing.T) {
		entries, err := client.ListDirectory(ctx, "docs")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "docs/api", entries[0].Path)
		assert.True(t, entries[0].IsDir())
		assert.Equal(t, "docs/guide.md", entries[1].Path)
	})

	t.Run("file path yields one entry", func(t *testing.T) {
		entries, err := client.ListDirectory(ctx, "docs/guide.md")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "docs/guide.md", entries[0].Path)
	})

	t.Run("missing path is not found", func(t *testing.T) {
		_, err := client.ListDirectory(ctx, "nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("server error is a plain failure", func(t *testing.T) {
		repo.SetListingStatus("broken", http.StatusInternalServerError)
		_, err := client.ListDirectory(ctx, "broken")
		require.Error(t, err)
		assert.False(t, domain.IsNotFound(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := client.ListDirectory(canceled, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestClient_ListDirectory_Auth(t *testing.T) {
	repo := testutil.NewFakeRepo(t, "octocat", "hello-world")
	repo.AddFile("README.md", "# Hello")

	t.Run("bearer token forwarded", func(t *testing.T) {
		client := newFakeClient(t, repo, "s3cret", "")
		_, err := client.ListDirectory(context.Background(), "")
		require.NoError(t, err)

		headers := repo.APIAuthHeaders()
		require.NotEmpty(t, headers)
		assert.Equal(t, "Bearer s3cret", headers[len(headers)-1])
	})

	t.Run("no token means no header", func(t *testing.T) {
		client := newFakeClient(t, repo, "", "")
		_, err := client.ListDirectory(context.Background(), "")
		require.NoError(t, err)

		headers := repo.APIAuthHeaders()
		assert.Empty(t, headers[len(headers)-1])
	})
}

func TestClient_ListDirectory_Ref(t *testing.T) {
	repo := testutil.NewFakeRepo(t, "octocat", "hello-world")
	repo.AddFile("README.md", "# Hello")

	client := newFakeClient(t, repo, "", "v1.2.0")
	_, err := client.ListDirectory(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"v1.2.0"}, repo.Refs())
}

func TestClient_FetchFile(t *testing.T) {
	repo := testutil.NewFakeRepo(t, "octocat", "hello-world")
	repo.AddFile("README.md", "# Hello\nWorld")
	repo.AddFile("gone.md", "x")
	repo.SetDownloadStatus("gone.md", http.StatusNotFound)

	client := newFakeClient(t, repo, "s3cret", "")
	ctx := context.Background()

	t.Run("downloads raw text without credentials", func(t *testing.T) {
		content, err := client.FetchFile(ctx, domain.TreeEntry{Path: "README.md", DownloadURL: repo.DownloadURL("README.md")})
		require.NoError(t, err)
		assert.Equal(t, "# Hello\nWorld", content)

		auth := repo.DownloadAuthHeaders()
		require.Len(t, auth, 1)
		assert.Empty(t, auth[0])
	})

	t.Run("missing download url", func(t *testing.T) {
		_, err := client.FetchFile(ctx, domain.TreeEntry{Path: "x"})
		assert.ErrorIs(t, err, domain.ErrNoDownloadURL)
	})

	t.Run("download failure", func(t *testing.T) {
		_, err := client.FetchFile(ctx, domain.TreeEntry{Path: "gone.md", DownloadURL: repo.DownloadURL("gone.md")})
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestClient_FetchFile_DecodesCharset(t *testing.T) {
	f := new(mocks.MockFetcher)
	f.On("Get", mock.Anything, "https://raw.example.com/latin1.txt").
		Return(testutil.CannedResponse(200, "text/plain; charset=iso-8859-1", "caf\xe9"), nil)

	client, err := NewClient(&RepoInfo{Owner: "o", Repo: "r"}, ClientOptions{Fetcher: f, APIURL: "https://api.example.com/"})
	require.NoError(t, err)

	content, err := client.FetchFile(context.Background(), domain.TreeEntry{DownloadURL: "https://raw.example.com/latin1.txt"})
	require.NoError(t, err)
	assert.Equal(t, "café", content)
	f.AssertExpectations(t)
}

func TestClient_Info(t *testing.T) {
	info := &RepoInfo{Owner: "o", Repo: "r"}
	client, err := NewClient(info, ClientOptions{Fetcher: testutil.NewSimpleFetcher(), APIURL: "https://api.example.com/"})
	require.NoError(t, err)
	assert.Same(t, info, client.Info())
}
