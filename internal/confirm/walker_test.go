package confirm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cpconfirm/internal/testutil"
)

func TestWalkTree_FindsNestedRegularFiles(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"a.txt":       "hello",
		"sub/b.txt":   "world",
		"sub/c/d.bin": "deep",
	})

	files, walkErrs := walkTree(root)

	assert.Empty(t, walkErrs)
	assert.ElementsMatch(t, []string{"a.txt", "sub/b.txt", "sub/c/d.bin"}, files)
}

func TestWalkTree_EmptyTree(t *testing.T) {
	root := t.TempDir()

	files, walkErrs := walkTree(root)

	assert.Empty(t, walkErrs)
	assert.Empty(t, files)
}

func TestWalkTree_SkipsDirectoryEntries(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"sub/a.txt": "x",
	})

	files, _ := walkTree(root)

	assert.NotContains(t, files, "sub")
	assert.Equal(t, []string{"sub/a.txt"}, files)
}

func TestWalkTree_DoesNotFollowSymlinkedDirectories(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"real/a.txt": "x",
	})
	// A symlink back to the root would loop forever if followed.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))

	files, walkErrs := walkTree(root)

	assert.Empty(t, walkErrs)
	assert.Equal(t, []string{"real/a.txt"}, files)
}

func TestWalkTree_SkipsNonRegularFiles(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"a.txt": "x",
	})
	require.NoError(t, os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "link.txt")))

	files, walkErrs := walkTree(root)

	assert.Empty(t, walkErrs)
	assert.Equal(t, []string{"a.txt"}, files)
}

func TestWalkTree_UnreadableDirectory_ContinuesWithSiblings(t *testing.T) {
	testutil.RequireRootless(t)

	root := testutil.WriteTree(t, map[string]string{
		"ok.txt":          "fine",
		"locked/secret":   "hidden",
		"visible/also.ok": "fine",
	})
	testutil.Chmod(t, filepath.Join(root, "locked"), 0o000)

	files, walkErrs := walkTree(root)

	require.Len(t, walkErrs, 1, "one per-entry error for the unreadable directory")
	assert.Equal(t, "locked", walkErrs[0].Path)
	assert.ElementsMatch(t, []string{"ok.txt", "visible/also.ok"}, files,
		"siblings of the unreadable directory still enumerated")
}
