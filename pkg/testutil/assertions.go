package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSymlinkTo checks that link is a symlink resolving to the same place as dest
func AssertSymlinkTo(t *testing.T, link, dest string) {
	t.Helper()

	info, err := os.Lstat(link)
	require.NoError(t, err, "link %s should exist", link)
	require.NotZero(t, info.Mode()&os.ModeSymlink, "%s should be a symlink", link)

	got, err := filepath.EvalSymlinks(link)
	require.NoError(t, err, "link %s should resolve", link)
	want, err := filepath.EvalSymlinks(dest)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// AssertNotExists checks that nothing, not even a broken link, is at path
func AssertNotExists(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist (err=%v)", path, err)
}

// AssertFileContent checks that path is a regular file holding content
func AssertFileContent(t *testing.T, path, content string) {
	t.Helper()
	info, err := os.Lstat(path)
	require.NoError(t, err)
	require.True(t, info.Mode().IsRegular(), "%s should be a regular file", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

// BackupEntries lists the names in a backup root, or nil if it does not exist
func BackupEntries(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
