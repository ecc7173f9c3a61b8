// Package formatter renders fetched files into the final context document.
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quantmind-br/repocontext/internal/config"
	"github.com/quantmind-br/repocontext/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lineNumberWidth is the minimum width line numbers are right-aligned to
const lineNumberWidth = 4

// FormatFileContent wraps a file's text in a fenced block labeled with its
// path. With lineNumbers each line is prefixed by its 1-based index.
func FormatFileContent(path, content string, lineNumbers bool) string {
	var b strings.Builder
	b.WriteString("\n\nFile: ")
	b.WriteString(path)
	b.WriteString("\n```\n")

	if lineNumbers {
		for i, line := range strings.Split(content, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%*d: %s", lineNumberWidth, i+1, line)
		}
	} else {
		b.WriteString(content)
	}

	b.WriteString("\n```\n")
	return b.String()
}

// FormatOutput renders the accumulated content in the configured format
func FormatOutput(content *domain.RepoContent, opts config.OutputConfig) (string, error) {
	if content == nil {
		content = domain.NewRepoContent()
	}

	switch strings.ToLower(opts.Format) {
	case config.FormatJSON:
		return formatJSON(content)
	case config.FormatMarkdown, "":
		if opts.GroupByCategory {
			return formatGrouped(content), nil
		}
		return formatFlat(content), nil
	default:
		return "", domain.NewValidationError("output.format", fmt.Sprintf("unsupported format %q", opts.Format))
	}
}

// CategoryTitle returns the display name of a category
func CategoryTitle(c domain.Category) string {
	return cases.Title(language.English).String(c.String())
}

func formatJSON(content *domain.RepoContent) (string, error) {
	normalized := domain.NewRepoContent()
	for _, c := range domain.Categories {
		for _, block := range content.Get(c) {
			normalized.Append(c, block)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized); err != nil {
		return "", fmt.Errorf("failed to encode content: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// formatGrouped emits one section per non-empty category
func formatGrouped(content *domain.RepoContent) string {
	var b strings.Builder
	for _, c := range domain.Categories {
		blocks := content.Get(c)
		if len(blocks) == 0 {
			continue
		}
		b.WriteString("# ")
		b.WriteString(CategoryTitle(c))
		b.WriteString("\n\n")
		b.WriteString(strings.Join(blocks, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}

func formatFlat(content *domain.RepoContent) string {
	var blocks []string
	for _, c := range domain.Categories {
		blocks = append(blocks, content.Get(c)...)
	}
	return strings.Join(blocks, "\n")
}
