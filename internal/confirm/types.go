package confirm

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the length in bytes of a content digest (BLAKE2b-512).
const DigestSize = blake2b.Size

// Digest is a fixed-size content fingerprint. Two files are considered
// identical iff their digests are byte-for-byte equal; the digest is a pure
// function of file content, independent of name, path, or tree.
//
// BLAKE2b-512 is assumed collision-resistant for the file counts this tool
// operates on. Equality of digests is treated as equality of content; no
// secondary byte comparison is performed.
type Digest [DigestSize]byte

// String returns the digest as a lowercase hex string.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Location identifies a file by the tree it belongs to and its path relative
// to that tree's root. Immutable once created.
type Location struct {
	// Root is the destination root path the file was found under.
	Root string `json:"root"`

	// Path is the file's path relative to Root, in slash form.
	Path string `json:"path"`
}

// HashJob is a single unit of hashing work. Each discovered file is submitted
// exactly once and consumed by exactly one worker.
type HashJob struct {
	Root    string // tree root this file belongs to
	AbsPath string // absolute path used to open the file
	RelPath string // path relative to Root, in slash form
}

// HashResult is the outcome of one HashJob: either a digest or a read error.
// Exactly one HashResult is published per submitted job.
type HashResult struct {
	Root    string
	RelPath string
	Digest  Digest
	Err     error // non-nil iff the file could not be read
}

// MissingReason classifies why a source file counts as missing.
type MissingReason string

const (
	// ReasonAbsent means the file was read successfully but no destination
	// holds content with the same digest.
	ReasonAbsent MissingReason = "absent"

	// ReasonUnreadable means the source file could not be read, so its
	// presence in the destinations cannot be confirmed.
	ReasonUnreadable MissingReason = "unreadable"
)

// MatchOutcome is the per-source-file classification produced by the matcher.
type MatchOutcome struct {
	// Path is the source-relative path of the file.
	Path string

	// Found reports whether at least one destination holds identical content.
	Found bool

	// Locations lists every destination file with identical content.
	// Populated only when Found is true.
	Locations []Location

	// Reason explains a non-Found outcome.
	Reason MissingReason

	// Err carries the read error for ReasonUnreadable outcomes.
	Err error
}

// MissingFile is one entry of a Report's missing list.
type MissingFile struct {
	// Path is the source-relative path.
	Path string `json:"path"`

	// Reason distinguishes confirmed-absent content from files that could
	// not be verified because they were unreadable.
	Reason MissingReason `json:"reason"`

	// Detail holds the read error text for unreadable files.
	Detail string `json:"detail,omitempty"`
}

// TreeError records a per-entry failure (traversal or read) that degraded the
// run without aborting it.
type TreeError struct {
	Root   string `json:"root"`
	Path   string `json:"path,omitempty"`
	Detail string `json:"detail"`
}

// Report is the final verdict of a run. It is a plain value; rendering to
// console or JSON is the caller's responsibility.
type Report struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// Source is the source root that was verified.
	Source string `json:"source"`

	// Destinations lists the destination roots, in the order given.
	Destinations []string `json:"destinations"`

	// AllPresent is true iff every source file was Found.
	AllPresent bool `json:"all_present"`

	// Missing lists every source file that was not Found, sorted by path.
	// Empty when AllPresent is true.
	Missing []MissingFile `json:"missing,omitempty"`

	// Found maps each matched source path to its destination locations,
	// sorted by (root, path). Populated only when the found map was
	// requested.
	Found map[string][]Location `json:"found,omitempty"`

	// WalkErrors lists traversal failures on either side, sorted.
	WalkErrors []TreeError `json:"walk_errors,omitempty"`

	// DestinationErrors lists destination files that could not be hashed
	// and are therefore absent from the index, sorted.
	DestinationErrors []TreeError `json:"destination_errors,omitempty"`

	// SourceFiles and DestinationFiles count the regular files discovered
	// on each side.
	SourceFiles      int `json:"source_files"`
	DestinationFiles int `json:"destination_files"`
}
