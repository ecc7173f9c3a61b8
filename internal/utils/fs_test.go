package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "repo-context.md")

	require.NoError(t, EnsureParentDir(path))
	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, EnsureParentDir(path), "existing directory is fine")
	assert.NoFileExists(t, path)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		input    string
		expected string
	}{
		{"~/out/repo.md", filepath.Join(home, "out", "repo.md")},
		{"~", home},
		{"~alice/repo.md", "~alice/repo.md"},
		{"/tmp/repo.md", "/tmp/repo.md"},
		{"./repo~.md", "./repo~.md"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandHome(tt.input))
		})
	}
}
