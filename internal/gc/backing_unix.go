//go:build unix

package gc

import "golang.org/x/sys/unix"

// newBacking reserves size bytes with mmap, outside the Go runtime's
// own heap, matching how a real collector reserves its arena (spec.md
// §4.8's "a contiguous heap [start, end)"; SPEC_FULL.md's domain-stack
// note on golang.org/x/sys/unix). Falls back to a plain slice if the
// mmap call itself fails (e.g. sandboxed environments disallowing
// anonymous maps).
func newBacking(size int) []byte {
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return make([]byte, size)
	}
	return b
}
