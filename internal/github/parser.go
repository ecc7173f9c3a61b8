package github

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/quantmind-br/repocontext/internal/domain"
)

// PublicHost is the host whose API lives on a separate api. subdomain
const PublicHost = "github.com"

// PublicAPIURL is the REST root for PublicHost
const PublicAPIURL = "https://api.github.com/"

var (
	repoURLPattern = regexp.MustCompile(`^(https?)://([^/\s]+)/([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(\.git)?(/.*)?$`)
	treePattern    = regexp.MustCompile(`^/(?:tree|blob)/([^/]+)(?:/(.+))?$`)
)

// RepoInfo identifies a repository and an optional starting point inside it
type RepoInfo struct {
	Scheme  string
	Host    string
	Owner   string
	Repo    string
	Ref     string // branch, tag or commit from a /tree/<ref> suffix
	SubPath string // directory below the root to start from
	URL     string
}

// FullName returns owner/repo
func (r *RepoInfo) FullName() string {
	return r.Owner + "/" + r.Repo
}

// ParseRepoURL validates a repository URL of the form
// http(s)://<host>/<owner>/<repo>[.git][/tree/<ref>[/<path>]].
func ParseRepoURL(rawURL string) (*RepoInfo, error) {
	trimmed := strings.TrimSpace(rawURL)
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}

	m := repoURLPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return nil, domain.NewRepositoryURLError(rawURL, "expected http(s)://<host>/<owner>/<repo>")
	}

	info := &RepoInfo{
		Scheme: m[1],
		Host:   strings.ToLower(m[2]),
		Owner:  m[3],
		Repo:   m[4],
		URL:    rawURL,
	}
	if isDotSegment(info.Owner) || isDotSegment(info.Repo) {
		return nil, domain.NewRepositoryURLError(rawURL, "owner and repository must be names")
	}

	if rest := m[6]; rest != "" {
		if tm := treePattern.FindStringSubmatch(strings.TrimSuffix(rest, "/")); tm != nil {
			info.Ref = tm[1]
			info.SubPath = NormalizePath(tm[2])
		}
	}

	return info, nil
}

// NormalizePath turns a user-supplied path into the slash-separated,
// unanchored form used by the contents API ("" is the root).
func NormalizePath(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return p
}

// APIBaseURL returns the REST root for the repository host: api.github.com
// for github.com, /api/v3/ on the same host for GitHub Enterprise.
func APIBaseURL(info *RepoInfo) string {
	if info.Host == PublicHost || info.Host == "www."+PublicHost {
		return PublicAPIURL
	}
	return info.Scheme + "://" + info.Host + "/api/v3/"
}

func isDotSegment(s string) bool {
	return strings.Trim(s, ".") == ""
}
