// Package testutil provides shared test fixtures for building directory
// trees on disk.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteTree materializes files under a fresh temporary directory and
// returns its path. Keys are slash-separated paths relative to the root;
// values are file contents. Intermediate directories are created as needed.
//
// The directory is removed automatically when the test ends (t.TempDir).
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// Chmod changes the mode of path and restores it when the test ends, so
// temp-dir cleanup can still remove the file.
func Chmod(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	orig := info.Mode()
	require.NoError(t, os.Chmod(path, mode))
	t.Cleanup(func() { _ = os.Chmod(path, orig) })
}

// RequireRootless skips tests that rely on permission denials, which do not
// apply when running as root.
func RequireRootless(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed when running as root")
	}
}
