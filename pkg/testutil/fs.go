package testutil

import (
	"os"
	"sort"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WriteFile creates path (and its parents) in fsys with content.
// It fails the test if the file cannot be written.
func WriteFile(t *testing.T, fsys afero.Fs, path, content string) string {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0755))
	return path
}

// AssertFileContent asserts path exists in fsys with exactly content
func AssertFileContent(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	got, err := afero.ReadFile(fsys, path)
	if assert.NoError(t, err, "reading %s", path) {
		assert.Equal(t, content, string(got), "content of %s", path)
	}
}

// AssertNotExists asserts path does not exist in fsys
func AssertNotExists(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	_, err := fsys.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected %s to not exist, got err=%v", path, err)
}

// ListDir returns the sorted names of the entries of dir
func ListDir(t *testing.T, fsys afero.Fs, dir string) []string {
	t.Helper()
	entries, err := afero.ReadDir(fsys, dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
