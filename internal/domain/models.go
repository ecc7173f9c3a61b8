package domain

import (
	"fmt"
	"net/http"
)

// Category is one of the fixed content classes a file may be assigned to
type Category int

const (
	CategoryReadme Category = iota
	CategoryDocumentation
	CategoryExamples
	CategoryTests
)

// Categories lists every category in classification priority order.
// A file matching several categories belongs to the first one listed here.
var Categories = []Category{
	CategoryReadme,
	CategoryDocumentation,
	CategoryExamples,
	CategoryTests,
}

var categoryNames = map[Category]string{
	CategoryReadme:        "readme",
	CategoryDocumentation: "documentation",
	CategoryExamples:      "examples",
	CategoryTests:         "tests",
}

// String returns the configuration key of the category
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory converts a configuration key into a Category
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if categoryNames[c] == name {
			return c, nil
		}
	}
	return 0, NewValidationError("category", fmt.Sprintf("unknown category %q", name))
}

// EntryType is the kind of a remote tree entry
type EntryType string

const (
	EntryTypeFile      EntryType = "file"
	EntryTypeDir       EntryType = "dir"
	EntryTypeSymlink   EntryType = "symlink"
	EntryTypeSubmodule EntryType = "submodule"
)

// TreeEntry is one item of a remote directory listing
type TreeEntry struct {
	Type        EntryType `json:"type"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	DownloadURL string    `json:"download_url,omitempty"` // empty when the entry has no raw content endpoint
}

// IsDir reports whether the entry should be expanded rather than fetched
func (e TreeEntry) IsDir() bool {
	return e.Type == EntryTypeDir
}

// RepoContent holds the formatted files accepted per category, in discovery order.
// Field order is the serialization order of the JSON artifact.
type RepoContent struct {
	Readme        []string `json:"readme"`
	Documentation []string `json:"documentation"`
	Examples      []string `json:"examples"`
	Tests         []string `json:"tests"`
}

// NewRepoContent returns an empty result with non-nil category slices
func NewRepoContent() *RepoContent {
	return &RepoContent{
		Readme:        []string{},
		Documentation: []string{},
		Examples:      []string{},
		Tests:         []string{},
	}
}

// Get returns the formatted files of a category
func (r *RepoContent) Get(c Category) []string {
	if p := r.slot(c); p != nil {
		return *p
	}
	return nil
}

// Append adds a formatted file to a category
func (r *RepoContent) Append(c Category, formatted string) {
	if p := r.slot(c); p != nil {
		*p = append(*p, formatted)
	}
}

// Count returns the number of files accepted in a category
func (r *RepoContent) Count(c Category) int {
	return len(r.Get(c))
}

// Total returns the number of files accepted across all categories
func (r *RepoContent) Total() int {
	total := 0
	for _, c := range Categories {
		total += r.Count(c)
	}
	return total
}

func (r *RepoContent) slot(c Category) *[]string {
	switch c {
	case CategoryReadme:
		return &r.Readme
	case CategoryDocumentation:
		return &r.Documentation
	case CategoryExamples:
		return &r.Examples
	case CategoryTests:
		return &r.Tests
	}
	return nil
}

// ProcessedFile records one accepted file for the processing summary
type ProcessedFile struct {
	Category Category
	Path     string
}

// Response represents an HTTP response
type Response struct {
	StatusCode  int
	Body        []byte
	Headers     http.Header
	ContentType string
	URL         string
}
