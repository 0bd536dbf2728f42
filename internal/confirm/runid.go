package confirm

import (
	"github.com/google/uuid"
)

// RunIDGenerator produces the identifier stamped on each Report.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, so reports from
// successive runs sort by creation time.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns a predetermined run ID.
//
// This enables deterministic tests and golden report comparison: the same
// trees with the same FixedGenerator produce byte-identical reports.
type FixedGenerator struct {
	id string
}

// NewFixedGenerator creates a generator that always returns id.
// An empty id defaults to "test-run-default".
func NewFixedGenerator(id string) *FixedGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedGenerator) Generate() string {
	return g.id
}
