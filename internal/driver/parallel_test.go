package driver

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListPyFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.py", "")
	writeFile(t, dir, "a.py", "")
	writeFile(t, dir, "pkg/c.py", "")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, ".venv/site.py", "")
	extra := writeFile(t, dir, "script", "")

	files, err := ListPyFiles([]string{dir, extra, filepath.Join(dir, "a.py")})
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "a.py"),
		filepath.Join(dir, "b.py"),
		filepath.Join(dir, "pkg", "c.py"),
		filepath.Join(dir, "script"),
	}, files)
}

func TestRefactorPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.py", "a = 1 / 2\n")
	writeFile(t, dir, "two.py", "b = 3\n")
	writeFile(t, dir, "broken.py", "if x\n")

	var events atomic.Int32
	opts := Options{Mode: FixedPoint(0), Jobs: 2,
		Progress: SinkFunc(func(Event) { events.Add(1) })}
	sum, err := RefactorPaths(context.Background(), []string{dir}, register(t, division()), opts)
	require.NoError(t, err)
	require.Len(t, sum.Files, 3)
	require.Equal(t, 1, sum.Changed)
	require.Equal(t, 1, sum.Failed)
	require.Equal(t, filepath.Join(dir, "broken.py"), sum.Files[0].Path)
	require.True(t, sum.Bag(0).HasErrors())
	require.Positive(t, events.Load())
}

func TestRefactorPathsUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "same.py", "x = 1\n")
	writeFile(t, dir, "div.py", "y = 1 / 2\n")
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	fixers := register(t, division())
	opts := Options{Mode: SinglePass(), Cache: cache}
	first, err := RefactorPaths(context.Background(), []string{dir}, fixers, opts)
	require.NoError(t, err)
	require.Zero(t, first.Cached)

	second, err := RefactorPaths(context.Background(), []string{dir}, fixers, opts)
	require.NoError(t, err)
	require.Equal(t, 1, second.Cached)
	require.Equal(t, 1, second.Changed)

	// another fixer set must not reuse the verdict
	third, err := RefactorPaths(context.Background(), []string{dir}, register(t, nested()), opts)
	require.NoError(t, err)
	require.Zero(t, third.Cached)
}

func TestRefactorPathsCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "a = 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RefactorPaths(ctx, []string{dir}, register(t, division()), Options{Jobs: 1})
	require.ErrorIs(t, err, context.Canceled)
}
