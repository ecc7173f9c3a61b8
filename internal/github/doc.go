// Package github talks to a GitHub-style repository contents API.
//
// It parses repository URLs, derives the API root for github.com and
// GitHub Enterprise hosts, lists directories through go-github and
// downloads raw file bodies from the entries' download URLs. All traffic
// runs through the shared fetcher transport, so throttling and retries
// apply to both listings and downloads.
package github
