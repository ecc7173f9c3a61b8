package output

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/quantmind-br/repocontext/internal/domain"
	"github.com/quantmind-br/repocontext/internal/utils"
)

// Writer writes the rendered artifact to disk
type Writer struct {
	path   string
	dryRun bool
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	// Path is the artifact file; a .gz or .zst suffix compresses it
	Path   string
	DryRun bool
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) *Writer {
	return &Writer{
		path:   utils.ExpandHome(opts.Path),
		dryRun: opts.DryRun,
	}
}

// Path returns the destination path
func (w *Writer) Path() string {
	return w.path
}

// Write stores content at the destination and returns its path. The file is
// written to a temporary sibling and renamed into place, so a failed write
// leaves any previous artifact untouched.
func (w *Writer) Write(ctx context.Context, content string) (string, error) {
	if w.path == "" {
		return "", fmt.Errorf("%w: no output path", domain.ErrWriteFailed)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if w.dryRun {
		return w.path, nil
	}

	if err := utils.EnsureParentDir(w.path); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(w.path), "."+filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()

	if err := writeCompressed(tmp, w.path, content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, w.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, w.path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, w.path, err)
	}
	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %s: %w", domain.ErrWriteFailed, w.path, err)
	}

	return w.path, nil
}

// Compression returns the codec implied by the path suffix: "gzip", "zstd" or ""
func Compression(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return "gzip"
	case ".zst":
		return "zstd"
	}
	return ""
}

func writeCompressed(dst io.Writer, path, content string) error {
	switch Compression(path) {
	case "gzip":
		zw := gzip.NewWriter(dst)
		if _, err := io.WriteString(zw, content); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	case "zstd":
		zw, err := zstd.NewWriter(dst)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(zw, content); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	default:
		_, err := io.WriteString(dst, content)
		return err
	}
}
