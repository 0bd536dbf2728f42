package confirm

// TreeIndex maps content digests to every destination location holding that
// content. Duplicate content across or within destinations is valid:
// multiple locations per digest are retained.
//
// The index is written by exactly one goroutine during the destination
// phase and becomes read-only once that phase completes, so lookups during
// matching need no locking.
type TreeIndex struct {
	locations map[Digest][]Location
}

// newTreeIndex creates an empty index.
func newTreeIndex() *TreeIndex {
	return &TreeIndex{locations: make(map[Digest][]Location)}
}

// Add records that loc holds content with digest d.
func (ix *TreeIndex) Add(d Digest, loc Location) {
	ix.locations[d] = append(ix.locations[d], loc)
}

// Lookup returns every known location for digest d, or nil if the content
// was not seen in any destination. The returned slice is owned by the index
// and must not be mutated.
func (ix *TreeIndex) Lookup(d Digest) []Location {
	return ix.locations[d]
}

// Len returns the number of distinct digests in the index.
func (ix *TreeIndex) Len() int {
	return len(ix.locations)
}
