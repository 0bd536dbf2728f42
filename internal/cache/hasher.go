package cache

import (
	"log/slog"
	"os"

	"github.com/roach88/cpconfirm/internal/confirm"
)

// CachingHasher wraps a confirm.Hasher with digest reuse.
//
// On a cache hit (same path, size, and mtime as a previous run) the stored
// digest is returned without reading the file. On a miss the inner hasher
// runs and the result is stored for the next run.
//
// Cache read/write failures are logged and degrade to plain hashing; they
// never fail the file.
//
// Thread-safety: safe for concurrent use. The underlying database
// serializes access, and the inner hasher is required to be concurrent-safe
// by the Hasher contract.
type CachingHasher struct {
	inner confirm.Hasher
	cache *Cache
}

// NewCachingHasher wraps inner with the given cache.
func NewCachingHasher(inner confirm.Hasher, cache *Cache) *CachingHasher {
	return &CachingHasher{inner: inner, cache: cache}
}

// HashFile implements confirm.Hasher.
func (h *CachingHasher) HashFile(path string) (confirm.Digest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return confirm.Digest{}, &confirm.ReadError{Path: path, Err: err}
	}
	size, mtimeNS := info.Size(), info.ModTime().UnixNano()

	if d, ok, err := h.cache.Lookup(path, size, mtimeNS); err != nil {
		slog.Warn("digest cache lookup failed", "path", path, "error", err)
	} else if ok {
		return d, nil
	}

	d, err := h.inner.HashFile(path)
	if err != nil {
		return confirm.Digest{}, err
	}

	if err := h.cache.Store(path, size, mtimeNS, d); err != nil {
		slog.Warn("digest cache store failed", "path", path, "error", err)
	}
	return d, nil
}
