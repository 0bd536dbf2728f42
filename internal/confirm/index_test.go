package confirm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTreeIndex_LookupUnknownDigest(t *testing.T) {
	ix := newTreeIndex()

	assert.Nil(t, ix.Lookup(digestOf("never seen")))
	assert.Equal(t, 0, ix.Len())
}

func TestTreeIndex_AddAndLookup(t *testing.T) {
	ix := newTreeIndex()
	d := digestOf("hello")

	ix.Add(d, Location{Root: "/dst", Path: "a.txt"})

	locs := ix.Lookup(d)
	assert.Equal(t, []Location{{Root: "/dst", Path: "a.txt"}}, locs)
	assert.Equal(t, 1, ix.Len())
}

func TestTreeIndex_RetainsDuplicateLocations(t *testing.T) {
	// The same content in several destination files is valid; all
	// locations are kept.
	ix := newTreeIndex()
	d := digestOf("dup")

	ix.Add(d, Location{Root: "/dst1", Path: "a.txt"})
	ix.Add(d, Location{Root: "/dst1", Path: "copy/a.txt"})
	ix.Add(d, Location{Root: "/dst2", Path: "a.txt"})

	assert.Len(t, ix.Lookup(d), 3)
	assert.Equal(t, 1, ix.Len(), "one digest, many locations")
}

func TestTreeIndex_DistinctDigestsDistinctEntries(t *testing.T) {
	ix := newTreeIndex()

	ix.Add(digestOf("one"), Location{Root: "/dst", Path: "one.txt"})
	ix.Add(digestOf("two"), Location{Root: "/dst", Path: "two.txt"})

	assert.Equal(t, 2, ix.Len())
	assert.Len(t, ix.Lookup(digestOf("one")), 1)
	assert.Len(t, ix.Lookup(digestOf("two")), 1)
}
