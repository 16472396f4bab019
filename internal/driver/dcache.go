package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// bump when VerdictPayload changes shape
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 sum.
type Digest [32]byte

// DiskCache remembers which file contents a given fixer set leaves
// unchanged, so later runs can skip parsing them. Entries are msgpack files
// named by VerdictKey. Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// VerdictPayload is one cached "nothing to fix" verdict.
type VerdictPayload struct {
	Schema      uint16
	Path        string // informational; the key does not depend on it
	ContentHash Digest
	Fingerprint string
	Mode        string
	CheckedAt   int64 // unix seconds
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens the cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// VerdictKey combines content, fixer fingerprint and mode:
// H(content-hash || fingerprint || mode).
func VerdictKey(content Digest, fingerprint string, mode Mode) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	_, _ = h.Write([]byte(fingerprint))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(mode.String()))
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не держать всё в одной папке
	return filepath.Join(c.dir, "verdicts", hexKey[:2], hexKey+".mp")
}

// Put writes payload under key, replacing the file atomically.
func (c *DiskCache) Put(key Digest, payload *VerdictPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload stored under key. A missing entry or one written
// by another schema version is a miss, not an error.
func (c *DiskCache) Get(key Digest, out *VerdictPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// RecordUnchanged stores a verdict for content under fingerprint and mode.
func (c *DiskCache) RecordUnchanged(path string, content Digest, fingerprint string, mode Mode) error {
	return c.Put(VerdictKey(content, fingerprint, mode), &VerdictPayload{
		Path:        path,
		ContentHash: content,
		Fingerprint: fingerprint,
		Mode:        mode.String(),
		CheckedAt:   time.Now().Unix(),
	})
}

// KnownUnchanged reports whether a verdict exists for the combination.
func (c *DiskCache) KnownUnchanged(content Digest, fingerprint string, mode Mode) (bool, error) {
	var p VerdictPayload
	ok, err := c.Get(VerdictKey(content, fingerprint, mode), &p)
	if err != nil || !ok {
		return false, err
	}
	return p.ContentHash == content && p.Fingerprint == fingerprint, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименовываем и удаляем, чтобы параллельный процесс не видел полупустой кэш
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
