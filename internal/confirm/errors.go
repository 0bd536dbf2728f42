package confirm

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid run configuration (bad worker count,
// nonexistent root). Configuration errors are the only fatal errors: they
// fail the run before any hashing starts.
type ConfigError struct {
	// Field names the offending option ("workers", "source", "destinations").
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// IsConfigError returns true if the error is a ConfigError.
// Uses errors.As to handle wrapped errors.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// WalkError reports a single inaccessible entry encountered during tree
// traversal. Walk errors are local: siblings continue to be visited.
type WalkError struct {
	Root string // tree root being walked
	Path string // path of the failing entry, relative to Root
	Err  error  // underlying filesystem error
}

// Error implements the error interface.
func (e *WalkError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("walk %s: %v", e.Root, e.Err)
	}
	return fmt.Sprintf("walk %s: %s: %v", e.Root, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *WalkError) Unwrap() error {
	return e.Err
}

// ReadError reports a file that could not be read during hashing. Read
// errors are per-file and never fatal: on the destination side the file is
// excluded from the index, on the source side the file is classified
// Missing.
type ReadError struct {
	Path string // absolute path of the unreadable file
	Err  error  // underlying I/O error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// IsReadError returns true if the error is a ReadError.
// Uses errors.As to handle wrapped errors.
func IsReadError(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}
