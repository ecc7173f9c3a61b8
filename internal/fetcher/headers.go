package fetcher

import "github.com/quantmind-br/repocontext/pkg/version"

// DefaultHeaders returns the headers sent with every request.
// Per-request headers override these.
func DefaultHeaders(userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	return map[string]string{
		"User-Agent": userAgent,
		"Accept":     "*/*",
	}
}
