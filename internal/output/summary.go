package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/quantmind-br/repocontext/internal/domain"
)

// styles holds the summary styles for one output stream. Colors degrade to
// plain text when w is not a terminal.
type styles struct {
	title    lipgloss.Style
	category lipgloss.Style
	success  lipgloss.Style
	bold     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:    r.NewStyle().Bold(true),
		category: r.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
		success:  r.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		bold:     r.NewStyle().Bold(true),
	}
}

// PrintSummary prints the accepted files grouped by category, in category
// priority order. Categories without files are left out.
func PrintSummary(w io.Writer, files []domain.ProcessedFile) {
	s := newStyles(w)

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.title.Render("Processing Summary:"))

	for _, category := range domain.Categories {
		var paths []string
		for _, f := range files {
			if f.Category == category {
				paths = append(paths, f.Path)
			}
		}
		if len(paths) == 0 {
			continue
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, s.category.Render(strings.ToUpper(category.String())))
		for _, p := range paths {
			fmt.Fprintln(w, s.success.Render("  ✓ "+p))
		}
	}
	fmt.Fprintln(w)
}

// PrintResult prints where the artifact went and how large it is. A negative
// token count is left out.
func PrintResult(w io.Writer, path string, size, tokens int, dryRun bool) {
	s := newStyles(w)

	fmt.Fprintln(w, s.title.Render("Output Summary:"))
	if dryRun {
		fmt.Fprintln(w, s.success.Render("✓ Dry run, nothing written to: ")+s.bold.Render(path))
	} else {
		fmt.Fprintln(w, s.success.Render("✓ Content saved to: ")+s.bold.Render(path))
	}
	fmt.Fprintln(w, s.success.Render("✓ Size: ")+s.bold.Render(formatBytes(size)))
	if tokens >= 0 {
		fmt.Fprintln(w, s.success.Render("✓ Total tokens: ")+s.bold.Render(formatCount(tokens)))
	}
	fmt.Fprintln(w)
}

func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := int64(n) / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatCount groups digits in thousands, e.g. 12,345
func formatCount(n int) string {
	digits := strconv.Itoa(n)
	if n < 0 {
		return digits
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
