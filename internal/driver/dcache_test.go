package driver

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskCacheVerdicts(t *testing.T) {
	c, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "c"))
	require.NoError(t, err)

	content := Digest(sha256.Sum256([]byte("x = 1\n")))
	ok, err := c.KnownUnchanged(content, "fp", SinglePass())
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.RecordUnchanged("x.py", content, "fp", SinglePass()))
	ok, err = c.KnownUnchanged(content, "fp", SinglePass())
	require.NoError(t, err)
	require.True(t, ok)

	ok, _ = c.KnownUnchanged(content, "fp", FixedPoint(3))
	require.False(t, ok, "mode is part of the key")
	ok, _ = c.KnownUnchanged(content, "other", SinglePass())
	require.False(t, ok, "fingerprint is part of the key")

	require.NoError(t, c.DropAll())
	ok, err = c.KnownUnchanged(content, "fp", SinglePass())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	ok, err := c.KnownUnchanged(Digest{}, "fp", SinglePass())
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, c.RecordUnchanged("x.py", Digest{}, "fp", SinglePass()))
	require.Empty(t, c.Dir())
}
