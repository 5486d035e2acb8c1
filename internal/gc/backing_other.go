//go:build !unix

package gc

// newBacking is the portable fallback for platforms without mmap: a
// plain Go byte slice still models "a contiguous heap [start, end)"
// faithfully since this module never runs the generated machine code
// itself (spec.md §4.8).
func newBacking(size int) []byte {
	return make([]byte, size)
}
