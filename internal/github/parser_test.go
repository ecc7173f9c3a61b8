package github

import (
	"errors"
	"testing"

	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected *RepoInfo
	}{
		{
			name: "basic github url",
			url:  "https://github.com/octocat/hello-world",
			expected: &RepoInfo{
				Scheme: "https", Host: "github.com", Owner: "octocat", Repo: "hello-world",
			},
		},
		{
			name: "trailing slash",
			url:  "https://github.com/octocat/hello-world/",
			expected: &RepoInfo{
				Scheme: "https", Host: "github.com", Owner: "octocat", Repo: "hello-world",
			},
		},
		{
			name: "git suffix",
			url:  "https://github.com/octocat/hello-world.git",
			expected: &RepoInfo{
				Scheme: "https", Host: "github.com", Owner: "octocat", Repo: "hello-world",
			},
		},
		{
			name: "dots and underscores",
			url:  "http://github.com/my_org/repo.name",
			expected: &RepoInfo{
				Scheme: "http", Host: "github.com", Owner: "my_org", Repo: "repo.name",
			},
		},
		{
			name: "tree with ref",
			url:  "https://github.com/octocat/hello-world/tree/develop",
			expected: &RepoInfo{
				Scheme: "https", Host: "github.com", Owner: "octocat", Repo: "hello-world", Ref: "develop",
			},
		},
		{
			name: "tree with ref and sub path",
			url:  "https://github.com/octocat/hello-world/tree/main/docs/guides/",
			expected: &RepoInfo{
				Scheme: "https", Host: "github.com", Owner: "octocat", Repo: "hello-world",
				Ref: "main", SubPath: "docs/guides",
			},
		},
		{
			name: "query and fragment are ignored",
			url:  "https://github.com/octocat/hello-world?tab=readme#top",
			expected: &RepoInfo{
				Scheme: "https", Host: "github.com", Owner: "octocat", Repo: "hello-world",
			},
		},
		{
			name: "other pages are ignored",
			url:  "https://github.com/octocat/hello-world/issues/1",
			expected: &RepoInfo{
				Scheme: "https", Host: "github.com", Owner: "octocat", Repo: "hello-world",
			},
		},
		{
			name: "enterprise host",
			url:  "https://GHE.example.com/team/service",
			expected: &RepoInfo{
				Scheme: "https", Host: "ghe.example.com", Owner: "team", Repo: "service",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseRepoURL(tt.url)
			require.NoError(t, err)

			tt.expected.URL = tt.url
			assert.Equal(t, tt.expected, info)
		})
	}
}

func TestParseRepoURL_Invalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "github.com/octocat/hello-world"},
		{"ssh", "git@github.com:octocat/hello-world.git"},
		{"ftp scheme", "ftp://github.com/octocat/hello-world"},
		{"owner only", "https://github.com/octocat"},
		{"host only", "https://github.com/"},
		{"dot owner", "https://github.com/../hello-world"},
		{"invalid characters", "https://github.com/octo cat/hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseRepoURL(tt.url)
			require.Error(t, err)
			assert.Nil(t, info)
			assert.True(t, errors.Is(err, domain.ErrInvalidRepositoryURL))

			var urlErr *domain.RepositoryURLError
			require.ErrorAs(t, err, &urlErr)
			assert.Equal(t, tt.url, urlErr.URL)
		})
	}
}

func TestRepoInfo_FullName(t *testing.T) {
	info := &RepoInfo{Owner: "octocat", Repo: "hello-world"}
	assert.Equal(t, "octocat/hello-world", info.FullName())
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"/", ""},
		{".", ""},
		{"docs", "docs"},
		{"/docs/", "docs"},
		{"docs//guides/./intro", "docs/guides/intro"},
		{`docs\guides`, "docs/guides"},
		{"my%20docs", "my docs"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePath(tt.input))
		})
	}
}

func TestAPIBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		info     *RepoInfo
		expected string
	}{
		{"github.com", &RepoInfo{Scheme: "https", Host: "github.com"}, "https://api.github.com/"},
		{"www.github.com", &RepoInfo{Scheme: "https", Host: "www.github.com"}, "https://api.github.com/"},
		{"http github.com still uses https api", &RepoInfo{Scheme: "http", Host: "github.com"}, "https://api.github.com/"},
		{"enterprise", &RepoInfo{Scheme: "https", Host: "ghe.example.com"}, "https://ghe.example.com/api/v3/"},
		{"enterprise over http", &RepoInfo{Scheme: "http", Host: "git.local:8080"}, "http://git.local:8080/api/v3/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, APIBaseURL(tt.info))
		})
	}
}
