package confirm

import (
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// DefaultHashBuffer is the default chunk size for streaming file reads.
const DefaultHashBuffer = 1 << 20 // 1 MiB

// Hasher computes the content digest of a single file.
//
// Implementations must be safe for concurrent use: the worker pool calls
// HashFile from multiple goroutines.
type Hasher interface {
	// HashFile streams the file at path and returns its content digest.
	// A file that cannot be opened or read yields a *ReadError.
	HashFile(path string) (Digest, error)
}

// BLAKE2b512Hasher streams file bytes through BLAKE2b-512 in bounded-size
// chunks. Whole files are never held in memory, so arbitrarily large files
// hash in constant space.
type BLAKE2b512Hasher struct {
	bufferSize int
}

// NewBLAKE2b512Hasher creates a hasher reading in chunks of bufferSize
// bytes. A bufferSize < 1 falls back to DefaultHashBuffer.
func NewBLAKE2b512Hasher(bufferSize int) *BLAKE2b512Hasher {
	if bufferSize < 1 {
		bufferSize = DefaultHashBuffer
	}
	return &BLAKE2b512Hasher{bufferSize: bufferSize}
}

// HashFile implements Hasher.
func (h *BLAKE2b512Hasher) HashFile(path string) (Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digest{}, &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	// New512 only fails for oversized keys; unkeyed use cannot error.
	hasher, _ := blake2b.New512(nil)

	buf := make([]byte, h.bufferSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return Digest{}, &ReadError{Path: path, Err: err}
	}

	var d Digest
	hasher.Sum(d[:0])
	return d, nil
}
