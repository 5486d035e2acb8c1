// Package gc implements spec.md §4.8's pluggable garbage collection:
// allocators (next-fit, semispace), markers (LIFO, FIFO, edge-FIFO),
// collector strategies (zero, mark-sweep, Lisp2 mark-compact, Jonkers
// threaded compaction, compressor, semispace copy), a stack walker,
// and per-phase statistics. Everything operates over a flat byte
// heap addressed through internal/runtimeobj's Header view, the same
// little-endian, explicitly-sized-word discipline the teacher's
// bytecode format uses.
package gc

import (
	"fmt"

	"coolc/internal/runtimeobj"
)

// Heap is a contiguous byte-addressed region. For a semispace
// collector, [Start, End) names the half currently being allocated
// into; Flip swaps to the other half.
type Heap struct {
	Bytes  []byte
	Start  int
	End    int
	Cursor int

	// semispace-only: the other half, nil outside that mode.
	other *Heap
}

// NewHeap allocates a single contiguous heap of size bytes, entirely
// free (one tag-0 chunk spanning it), per spec.md §4.8's "free chunks
// are represented in-place as objects with tag == 0 and valid size".
// The heap begins at offset runtimeobj.Alignment, not 0, so no object
// sits at offset 0, the value an unset (void) field holds.
func NewHeap(size int) *Heap {
	start := runtimeobj.Alignment
	h := &Heap{Bytes: newBacking(start + size), Start: start, End: start + size, Cursor: start}
	h.resetFreeChunk()
	return h
}

// NewSemispaceHeap allocates two equal halves of a shared backing
// array, returning the active (from-) half; its `other` pointer reaches
// the to-space for Flip.
func NewSemispaceHeap(halfSize int) *Heap {
	backing := newBacking(halfSize * 2)
	from := &Heap{Bytes: backing, Start: 0, End: halfSize}
	to := &Heap{Bytes: backing, Start: halfSize, End: halfSize * 2}
	from.other = to
	to.other = from
	from.resetFreeChunk()
	to.resetFreeChunk()
	return from
}

func (h *Heap) resetFreeChunk() {
	hdr := runtimeobj.Header{Heap: h.Bytes, Offset: h.Start}
	hdr.SetTag(runtimeobj.FreeTag)
	hdr.SetSize(h.End - h.Start)
	h.Cursor = h.Start
}

// Flip swaps this semispace heap with its other half, resetting the
// new active half to one free chunk (spec.md §4.8's "flip from-/
// to-space"). It panics if this heap was not created by
// NewSemispaceHeap.
func (h *Heap) Flip() *Heap {
	if h.other == nil {
		panic("gc: Flip called on a non-semispace heap")
	}
	h.other.resetFreeChunk()
	return h.other
}

// Header returns the object header view at offset.
func (h *Heap) Header(offset int) runtimeobj.Header {
	return runtimeobj.Header{Heap: h.Bytes, Offset: offset}
}

// Walk calls fn for every object (free or live) from Start to End, in
// address order, per spec.md §3's linear-walkability invariant.
func (h *Heap) Walk(fn func(runtimeobj.Header)) {
	off := h.Start
	for off < h.End {
		hdr := h.Header(off)
		size := hdr.Size()
		if size <= 0 {
			break // malformed heap; stop rather than loop forever
		}
		fn(hdr)
		off += size
	}
}

func (h *Heap) String() string {
	return fmt.Sprintf("Heap{[%d,%d), cursor=%d}", h.Start, h.End, h.Cursor)
}
