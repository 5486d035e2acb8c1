package gc

import "coolc/internal/runtimeobj"

// Marker walks the live object graph from a set of root addresses,
// setting the mark bit on everything reachable. The three strategies
// in spec.md §4.8 differ only in traversal order and when a candidate
// is tested against the mark bit.
type Marker interface {
	Mark(h *Heap, roots []int, tags runtimeobj.WellKnownTags)
}

// pointerFields returns the offsets of fields of obj that the marker
// should follow, honouring the special-type optimisation: Int/Bool
// objects have no pointer fields at all, and a String's fields are
// skipped save a fast-path visit to its length object (field 0) —
// that length object is itself an Int and so is never followed
// further, but it is still live and must still be traced, or a
// collector will reclaim a string's length out from under it.
func pointerFields(h *Heap, obj runtimeobj.Header, tags runtimeobj.WellKnownTags) []int {
	if tags.IsPrimitive(obj.Tag()) {
		return nil
	}
	if tags.IsString(obj.Tag()) {
		if obj.FieldCount() == 0 {
			return nil
		}
		addr := int(obj.Field(0))
		if addr >= h.Start && addr < h.End {
			return []int{addr}
		}
		return nil
	}
	n := obj.FieldCount()
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		addr := int(obj.Field(i))
		if addr >= h.Start && addr < h.End {
			out = append(out, addr)
		}
	}
	return out
}

// LIFOMarker is a stack-based depth-first traversal: a candidate is
// tested and marked before its children are pushed, so no address is
// ever pushed twice.
type LIFOMarker struct{}

func (LIFOMarker) Mark(h *Heap, roots []int, tags runtimeobj.WellKnownTags) {
	var stack []int
	push := func(addrs []int) {
		for _, addr := range addrs {
			if hdr := h.Header(addr); !hdr.IsFree() && !hdr.IsMarked() {
				hdr.SetMarked(true)
				stack = append(stack, addr)
			}
		}
	}
	push(roots)
	for len(stack) > 0 {
		addr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(pointerFields(h, h.Header(addr), tags))
	}
}

// FIFOMarker is the same test-then-mark discipline as LIFOMarker but
// breadth-first via a queue.
type FIFOMarker struct{}

func (FIFOMarker) Mark(h *Heap, roots []int, tags runtimeobj.WellKnownTags) {
	var queue []int
	enqueue := func(addrs []int) {
		for _, addr := range addrs {
			if hdr := h.Header(addr); !hdr.IsFree() && !hdr.IsMarked() {
				hdr.SetMarked(true)
				queue = append(queue, addr)
			}
		}
	}
	enqueue(roots)
	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]
		enqueue(pointerFields(h, h.Header(addr), tags))
	}
}

// EdgeFIFOMarker enqueues every outgoing edge unconditionally,
// whether or not the target is already marked, and only tests the
// mark bit when the edge is popped — trading duplicate queue entries
// for a traversal that never needs to inspect a header before
// enqueuing it.
type EdgeFIFOMarker struct{}

func (EdgeFIFOMarker) Mark(h *Heap, roots []int, tags runtimeobj.WellKnownTags) {
	queue := append([]int(nil), roots...)
	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]
		hdr := h.Header(addr)
		if hdr.IsFree() || hdr.IsMarked() {
			continue
		}
		hdr.SetMarked(true)
		for _, child := range pointerFields(h, hdr, tags) {
			queue = append(queue, child)
		}
	}
}
