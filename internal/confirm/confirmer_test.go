package confirm

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cpconfirm/internal/testutil"
)

func confirmTrees(t *testing.T, source string, destinations []string, opts ...Option) *Report {
	t.Helper()
	opts = append([]Option{WithRunIDGenerator(NewFixedGenerator("test-run"))}, opts...)
	report, err := New(opts...).Confirm(context.Background(), source, destinations)
	require.NoError(t, err)
	return report
}

func missingPaths(r *Report) []string {
	paths := make([]string, 0, len(r.Missing))
	for _, mf := range r.Missing {
		paths = append(paths, mf.Path)
	}
	return paths
}

func TestConfirm_AllPresent_IdenticalTrees(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{
		"a.txt":     "hello",
		"sub/b.txt": "world",
	})
	dst := testutil.WriteTree(t, map[string]string{
		"a.txt":     "hello",
		"sub/b.txt": "world",
	})

	report := confirmTrees(t, src, []string{dst})

	assert.True(t, report.AllPresent)
	assert.Empty(t, report.Missing)
	assert.Equal(t, 2, report.SourceFiles)
	assert.Equal(t, 2, report.DestinationFiles)
}

func TestConfirm_MissingFile(t *testing.T) {
	// S = {a.txt="hello", b.txt="world"}; D = [{a.txt="hello"}]
	src := testutil.WriteTree(t, map[string]string{
		"a.txt": "hello",
		"b.txt": "world",
	})
	dst := testutil.WriteTree(t, map[string]string{
		"a.txt": "hello",
	})

	report := confirmTrees(t, src, []string{dst})

	assert.False(t, report.AllPresent)
	assert.Equal(t, []string{"b.txt"}, missingPaths(report))
	assert.Equal(t, ReasonAbsent, report.Missing[0].Reason)
}

func TestConfirm_MatchingIsPathIndependent(t *testing.T) {
	// S = {a.txt="hello"}; D = [{x/a_copy.txt="hello"}]
	src := testutil.WriteTree(t, map[string]string{
		"a.txt": "hello",
	})
	dst := testutil.WriteTree(t, map[string]string{
		"x/a_copy.txt": "hello",
	})

	report := confirmTrees(t, src, []string{dst}, WithFoundMap(true))

	assert.True(t, report.AllPresent)
	require.Contains(t, report.Found, "a.txt")
	assert.Equal(t, []Location{{Root: dst, Path: "x/a_copy.txt"}}, report.Found["a.txt"])
}

func TestConfirm_MultipleDestinations(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{
		"a.txt": "alpha",
		"b.txt": "beta",
	})
	dst1 := testutil.WriteTree(t, map[string]string{
		"a.txt": "alpha",
	})
	dst2 := testutil.WriteTree(t, map[string]string{
		"elsewhere/b.txt": "beta",
	})

	report := confirmTrees(t, src, []string{dst1, dst2}, WithFoundMap(true))

	assert.True(t, report.AllPresent)
	assert.Equal(t, []Location{{Root: dst1, Path: "a.txt"}}, report.Found["a.txt"])
	assert.Equal(t, []Location{{Root: dst2, Path: "elsewhere/b.txt"}}, report.Found["b.txt"])
}

func TestConfirm_FoundMap_AllDuplicateLocationsSorted(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{
		"a.txt": "dup",
	})
	dst := testutil.WriteTree(t, map[string]string{
		"z.txt":      "dup",
		"a/copy.txt": "dup",
	})

	report := confirmTrees(t, src, []string{dst}, WithFoundMap(true))

	assert.True(t, report.AllPresent)
	assert.Equal(t, []Location{
		{Root: dst, Path: "a/copy.txt"},
		{Root: dst, Path: "z.txt"},
	}, report.Found["a.txt"], "locations sorted by (root, path)")
}

func TestConfirm_FoundMapOmittedUnlessRequested(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{"a.txt": "x"})
	dst := testutil.WriteTree(t, map[string]string{"a.txt": "x"})

	report := confirmTrees(t, src, []string{dst})

	assert.Nil(t, report.Found)
}

func TestConfirm_MissingListSortedByPath(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{
		"z.txt":     "zz",
		"a.txt":     "aa",
		"m/mid.txt": "mm",
	})
	dst := testutil.WriteTree(t, map[string]string{})

	report := confirmTrees(t, src, []string{dst}, WithWorkers(8))

	assert.Equal(t, []string{"a.txt", "m/mid.txt", "z.txt"}, missingPaths(report))
}

func TestConfirm_EmptySourceTree(t *testing.T) {
	src := t.TempDir()
	dst := testutil.WriteTree(t, map[string]string{"a.txt": "x"})

	report := confirmTrees(t, src, []string{dst})

	assert.True(t, report.AllPresent, "nothing to verify means nothing is missing")
	assert.Equal(t, 0, report.SourceFiles)
}

func TestConfirm_WorkerCountInvariance(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 40; i++ {
		files[fmt.Sprintf("dir%d/f%02d.txt", i%4, i)] = fmt.Sprintf("content-%02d", i)
	}
	src := testutil.WriteTree(t, files)

	destFiles := map[string]string{}
	for i := 0; i < 40; i += 2 { // copy only the even files
		destFiles[fmt.Sprintf("moved/f%02d.dat", i)] = fmt.Sprintf("content-%02d", i)
	}
	dst := testutil.WriteTree(t, destFiles)

	serial := confirmTrees(t, src, []string{dst}, WithWorkers(1), WithFoundMap(true))
	parallel := confirmTrees(t, src, []string{dst}, WithWorkers(8), WithFoundMap(true))

	assert.Equal(t, serial.AllPresent, parallel.AllPresent)
	assert.Equal(t, serial.Missing, parallel.Missing)
	assert.Equal(t, serial.Found, parallel.Found)
}

func TestConfirm_Idempotent(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{
		"a.txt": "hello",
		"b.txt": "world",
	})
	dst := testutil.WriteTree(t, map[string]string{
		"a.txt": "hello",
	})

	first := confirmTrees(t, src, []string{dst}, WithFoundMap(true))
	second := confirmTrees(t, src, []string{dst}, WithFoundMap(true))

	assert.Equal(t, first.AllPresent, second.AllPresent)
	assert.Equal(t, first.Missing, second.Missing)
	assert.Equal(t, first.Found, second.Found)
}

func TestConfirm_UnreadableSourceFile_ClassifiedMissing(t *testing.T) {
	testutil.RequireRootless(t)

	src := testutil.WriteTree(t, map[string]string{
		"a.txt":      "hello",
		"locked.txt": "hello", // same content as a.txt, present in dst
	})
	dst := testutil.WriteTree(t, map[string]string{
		"a.txt": "hello",
	})
	testutil.Chmod(t, filepath.Join(src, "locked.txt"), 0o000)

	report := confirmTrees(t, src, []string{dst})

	// Even though identical content exists in the destination, an
	// unreadable source file cannot be confirmed copied.
	assert.False(t, report.AllPresent)
	require.Equal(t, []string{"locked.txt"}, missingPaths(report))
	assert.Equal(t, ReasonUnreadable, report.Missing[0].Reason)
	assert.NotEmpty(t, report.Missing[0].Detail)
}

func TestConfirm_UnreadableDestinationFile_ExcludedFromIndex(t *testing.T) {
	testutil.RequireRootless(t)

	src := testutil.WriteTree(t, map[string]string{
		"a.txt": "hello",
	})
	dst := testutil.WriteTree(t, map[string]string{
		"a.txt": "hello",
	})
	testutil.Chmod(t, filepath.Join(dst, "a.txt"), 0o000)

	report := confirmTrees(t, src, []string{dst})

	assert.False(t, report.AllPresent, "unreadable destination content cannot confirm anything")
	assert.Equal(t, []string{"a.txt"}, missingPaths(report))
	require.Len(t, report.DestinationErrors, 1)
	assert.Equal(t, "a.txt", report.DestinationErrors[0].Path)
}

func TestConfirm_RunIDStamped(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{"a.txt": "x"})
	dst := testutil.WriteTree(t, map[string]string{"a.txt": "x"})

	report, err := New(WithRunIDGenerator(NewFixedGenerator("run-7"))).
		Confirm(context.Background(), src, []string{dst})
	require.NoError(t, err)

	assert.Equal(t, "run-7", report.RunID)
	assert.Equal(t, src, report.Source)
	assert.Equal(t, []string{dst}, report.Destinations)
}

func TestConfirm_DefaultRunIDsAreUUIDs(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{"a.txt": "x"})
	dst := testutil.WriteTree(t, map[string]string{"a.txt": "x"})

	first, err := New().Confirm(context.Background(), src, []string{dst})
	require.NoError(t, err)
	second, err := New().Confirm(context.Background(), src, []string{dst})
	require.NoError(t, err)

	assert.NotEmpty(t, first.RunID)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestConfirm_ConfigErrors(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{"a.txt": "x"})
	dst := testutil.WriteTree(t, map[string]string{"a.txt": "x"})

	tests := []struct {
		name         string
		workers      int
		source       string
		destinations []string
	}{
		{"zero workers", 0, src, []string{dst}},
		{"negative workers", -3, src, []string{dst}},
		{"nonexistent source", 1, filepath.Join(src, "nope"), []string{dst}},
		{"source is a file", 1, filepath.Join(src, "a.txt"), []string{dst}},
		{"no destinations", 1, src, nil},
		{"nonexistent destination", 1, src, []string{filepath.Join(dst, "nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithWorkers(tt.workers))
			_, err := c.Confirm(context.Background(), tt.source, tt.destinations)
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "want ConfigError, got %T: %v", err, err)
		})
	}
}

func TestConfirm_CancelledContext(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{"a.txt": "x"})
	dst := testutil.WriteTree(t, map[string]string{"a.txt": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Confirm(ctx, src, []string{dst})
	require.ErrorIs(t, err, context.Canceled)
}

func TestConfirm_ProgressPhases(t *testing.T) {
	src := testutil.WriteTree(t, map[string]string{"a.txt": "x", "b.txt": "y"})
	dst := testutil.WriteTree(t, map[string]string{"a.txt": "x", "b.txt": "y", "c.txt": "z"})

	sink := &countingSink{}
	confirmTrees(t, src, []string{dst}, WithProgress(sink))

	assert.Equal(t, int64(2), sink.begins.Load(), "destination phase then source phase")
	assert.Equal(t, int64(2), sink.ends.Load())
	assert.Equal(t, int64(5), sink.total.Load(), "3 destination jobs + 2 source jobs")
	assert.Equal(t, int64(5), sink.done.Load(), "one unit per finished job")
}
