package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCategories_Order tests the classification priority order
func TestCategories_Order(t *testing.T) {
	names := make([]string, 0, len(Categories))
	for _, c := range Categories {
		names = append(names, c.String())
	}

	assert.Equal(t, []string{"readme", "documentation", "examples", "tests"}, names)
}

// TestParseCategory tests parsing configuration keys
func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCategory("changelog")
	require.Error(t, err)
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))

	assert.Equal(t, "category(42)", Category(42).String())
}

// TestTreeEntry_IsDir tests entry kinds
func TestTreeEntry_IsDir(t *testing.T) {
	assert.True(t, TreeEntry{Type: EntryTypeDir}.IsDir())
	assert.False(t, TreeEntry{Type: EntryTypeFile}.IsDir())
	assert.False(t, TreeEntry{Type: EntryTypeSymlink}.IsDir())
	assert.False(t, TreeEntry{Type: EntryTypeSubmodule}.IsDir())
}

// TestRepoContent tests accumulation per category
func TestRepoContent(t *testing.T) {
	content := NewRepoContent()
	assert.Equal(t, 0, content.Total())

	content.Append(CategoryReadme, "a")
	content.Append(CategoryTests, "b")
	content.Append(CategoryTests, "c")
	content.Append(Category(99), "ignored")

	assert.Equal(t, []string{"a"}, content.Get(CategoryReadme))
	assert.Equal(t, []string{"b", "c"}, content.Tests)
	assert.Equal(t, 2, content.Count(CategoryTests))
	assert.Equal(t, 0, content.Count(CategoryExamples))
	assert.Nil(t, content.Get(Category(99)))
	assert.Equal(t, 3, content.Total())
}

// TestRepoContent_JSONKeyOrder tests the serialized key order
func TestRepoContent_JSONKeyOrder(t *testing.T) {
	data, err := json.Marshal(NewRepoContent())
	require.NoError(t, err)

	assert.Equal(t, `{"readme":[],"documentation":[],"examples":[],"tests":[]}`, string(data))
}
