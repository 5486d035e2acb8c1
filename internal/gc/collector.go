package gc

import (
	"coolc/internal/errors"
	"coolc/internal/runtimeobj"
)

// Collector runs one collection cycle over h given the current root
// set.
type Collector interface {
	// Collect returns the active heap after the cycle (a compacting
	// in-place collector returns h unchanged; SemispaceCopyCollector
	// returns the half it copied into), the roots relocated to match,
	// and cycle statistics.
	Collect(h *Heap, roots []int, tags runtimeobj.WellKnownTags) (*Heap, []int, Stats, error)
}

// ZeroCollector never collects: spec.md §4.8's ZERO strategy treats
// allocation failure as immediately fatal.
type ZeroCollector struct{}

func (ZeroCollector) Collect(h *Heap, roots []int, tags runtimeobj.WellKnownTags) (*Heap, []int, Stats, error) {
	return h, roots, Stats{Algorithm: "ZERO", HeapSize: h.End - h.Start}, errors.New(
		errors.AllocationFailure, "", 0, "heap exhausted: ZERO collector performs no collection")
}

// MarkSweepCollector marks from roots, then linear-walks the heap
// turning every unmarked object into a free chunk and clearing the
// mark bit on every surviving one (spec.md §4.8's MARK_SWEEP).
type MarkSweepCollector struct {
	Marker Marker
}

func (c MarkSweepCollector) Collect(h *Heap, roots []int, tags runtimeobj.WellKnownTags) (*Heap, []int, Stats, error) {
	marker := c.Marker
	if marker == nil {
		marker = LIFOMarker{}
	}
	marker.Mark(h, roots, tags)

	reclaimed := 0
	liveObjects, liveBytes := 0, 0
	off := h.Start
	for off < h.End {
		hdr := h.Header(off)
		size := hdr.Size()
		if size <= 0 {
			break
		}
		if hdr.IsFree() {
			off += size
			continue
		}
		if hdr.IsMarked() {
			hdr.SetMarked(false)
			liveObjects++
			liveBytes += size
		} else {
			reclaimed += size
			hdr.SetTag(runtimeobj.FreeTag)
			size = coalesce(h, off)
		}
		off += size
	}
	h.Cursor = h.Start
	return h, roots, Stats{
		Algorithm:   "MARK_SWEEP",
		HeapSize:    h.End - h.Start,
		LiveObjects: liveObjects,
		LiveBytes:   liveBytes,
		Reclaimed:   reclaimed,
	}, nil
}

// MarkCompactLisp2Collector implements the classic three-pass Lisp2
// algorithm (spec.md §4.8): compute forwarding addresses into the
// mark word, rewrite every reference to its forwarding target, then
// physically relocate objects in address order.
type MarkCompactLisp2Collector struct {
	Marker Marker
}

func (c MarkCompactLisp2Collector) Collect(h *Heap, roots []int, tags runtimeobj.WellKnownTags) (*Heap, []int, Stats, error) {
	marker := c.Marker
	if marker == nil {
		marker = LIFOMarker{}
	}
	marker.Mark(h, roots, tags)

	// Pass 1: compute forwarding addresses for live objects, in place
	// of the mark bit (both live in the same word).
	free := h.Start
	liveObjects, liveBytes := 0, 0
	h.Walk(func(hdr runtimeobj.Header) {
		if hdr.IsFree() || !hdr.IsMarked() {
			return
		}
		hdr.SetForwardingAddress(free)
		free += hdr.Size()
		liveObjects++
		liveBytes += hdr.Size()
	})

	// Pass 2: rewrite every live object's pointer fields to the
	// forwarding address of what they point to, and the roots too.
	h.Walk(func(hdr runtimeobj.Header) {
		if hdr.IsFree() || !hdr.IsMarked() {
			return
		}
		for _, off := range pointerFields(h, hdr, tags) {
			target := h.Header(off)
			idx := fieldIndexFor(hdr, off)
			if idx >= 0 {
				hdr.SetField(idx, uint64(target.ForwardingAddress()))
			}
		}
	})
	newRoots := make([]int, len(roots))
	for i, r := range roots {
		if r >= h.Start && r < h.End {
			newRoots[i] = h.Header(r).ForwardingAddress()
		} else {
			newRoots[i] = r
		}
	}

	// Pass 3: physically relocate, lowest address first, so a slide
	// never overwrites data not yet copied.
	reclaimed := (h.End - h.Start) - liveBytes
	type move struct {
		from, to, size int
		tag            int32
		dtable         uint64
		fields         []uint64
	}
	var moves []move
	h.Walk(func(hdr runtimeobj.Header) {
		if hdr.IsFree() || !hdr.IsMarked() {
			return
		}
		moves = append(moves, move{
			from: hdr.Offset, to: hdr.ForwardingAddress(), size: hdr.Size(),
			tag: hdr.Tag(), dtable: hdr.DispatchTable(), fields: hdr.Fields(),
		})
	})
	for _, m := range moves {
		dst := h.Header(m.to)
		dst.SetTag(m.tag)
		dst.SetSize(m.size)
		dst.SetDispatchTable(m.dtable)
		dst.SetMarked(false)
		for i, v := range m.fields {
			dst.SetField(i, v)
		}
	}
	if free < h.End {
		rest := h.Header(free)
		rest.SetTag(runtimeobj.FreeTag)
		rest.SetSize(h.End - free)
	}
	h.Cursor = h.Start

	return h, newRoots, Stats{
		Algorithm:   "MARK_COMPACT_LISP2",
		HeapSize:    h.End - h.Start,
		LiveObjects: liveObjects,
		LiveBytes:   liveBytes,
		Reclaimed:   reclaimed,
	}, nil
}

// fieldIndexFor returns the field index of hdr whose raw value equals
// off, or -1. Lisp2's update pass uses this to know which field slot
// to overwrite with a forwarding address.
func fieldIndexFor(hdr runtimeobj.Header, off int) int {
	for i := 0; i < hdr.FieldCount(); i++ {
		if int(hdr.Field(i)) == off {
			return i
		}
	}
	return -1
}

// ThreadedCompactor is Jonkers' mark-compact variant: rather than
// keeping forwarding addresses in the mark word the way
// MarkCompactLisp2Collector does, it threads each live object's
// forwarding address through its own size slot via
// Header.Thread/SetThread (spec.md §4.8: "uses the size slot as a
// thread-pointer"). Because Size is what FieldCount and Next derive
// everything else from, every live object's true size and pointer
// field layout has to be read out once, before the first SetThread
// call touches it.
type ThreadedCompactor struct {
	Marker Marker
}

// liveObj is the per-object bookkeeping ThreadedCompactor reads from
// the heap once, before any slot is overwritten: the true size (Size
// doubles as the thread pointer once threading starts) and which
// field indices are pointers worth rewriting.
type liveObj struct {
	offset, size int
	ptrFieldIdx  []int
}

func (c ThreadedCompactor) Collect(h *Heap, roots []int, tags runtimeobj.WellKnownTags) (*Heap, []int, Stats, error) {
	marker := c.Marker
	if marker == nil {
		marker = LIFOMarker{}
	}
	marker.Mark(h, roots, tags)

	var live []liveObj
	h.Walk(func(hdr runtimeobj.Header) {
		if hdr.IsFree() || !hdr.IsMarked() {
			return
		}
		var idxs []int
		for _, off := range pointerFields(h, hdr, tags) {
			idxs = append(idxs, fieldIndexFor(hdr, off))
		}
		live = append(live, liveObj{offset: hdr.Offset, size: hdr.Size(), ptrFieldIdx: idxs})
	})

	// Pass 1: thread each live object's forwarding address into its
	// own size slot, in address order.
	free := h.Start
	liveBytes := 0
	for _, l := range live {
		h.Header(l.offset).SetThread(free)
		free += l.size
		liveBytes += l.size
	}

	// Pass 2: rewrite every live object's pointer fields, and the
	// roots, to the forwarding address threaded into their target by
	// pass 1 — read directly off the target via Thread, not a table.
	for _, l := range live {
		hdr := h.Header(l.offset)
		for _, idx := range l.ptrFieldIdx {
			target := h.Header(int(hdr.Field(idx)))
			if target.IsMarked() {
				hdr.SetField(idx, uint64(target.Thread()))
			}
		}
	}
	newRoots := make([]int, len(roots))
	for i, r := range roots {
		if r >= h.Start && r < h.End && h.Header(r).IsMarked() {
			newRoots[i] = h.Header(r).Thread()
		} else {
			newRoots[i] = r
		}
	}

	// Snapshot tag/dispatch-table/fields (already rewritten to new
	// addresses by pass 2) for every live object before any
	// relocation write, since a destination slot can alias a
	// not-yet-read source object.
	type snap struct {
		tag    int32
		dtable uint64
		fields []uint64
	}
	snaps := make([]snap, len(live))
	for i, l := range live {
		hdr := h.Header(l.offset)
		fields := make([]uint64, (l.size-runtimeobj.HeaderSize)/runtimeobj.WordSize)
		for j := range fields {
			fields[j] = hdr.Field(j)
		}
		snaps[i] = snap{hdr.Tag(), hdr.DispatchTable(), fields}
	}

	// Pass 3: relocate, reading each object's forwarding address back
	// out of the size/thread slot one last time before it is
	// overwritten with the object's restored true size.
	for i, l := range live {
		dst := h.Header(h.Header(l.offset).Thread())
		dst.SetTag(snaps[i].tag)
		dst.SetSize(l.size)
		dst.SetDispatchTable(snaps[i].dtable)
		dst.SetMarked(false)
		for j, v := range snaps[i].fields {
			dst.SetField(j, v)
		}
	}

	reclaimed := (h.End - h.Start) - liveBytes
	if free < h.End {
		rest := h.Header(free)
		rest.SetTag(runtimeobj.FreeTag)
		rest.SetSize(h.End - free)
	}
	h.Cursor = h.Start

	return h, newRoots, Stats{
		Algorithm:   "THREADED_MC",
		HeapSize:    h.End - h.Start,
		LiveObjects: len(live),
		LiveBytes:   liveBytes,
		Reclaimed:   reclaimed,
	}, nil
}

// Compressor computes the same dense forwarding addresses as
// MarkCompactLisp2Collector but is offered as a distinct strategy
// (spec.md §4.8 lists COMPRESSOR alongside MARK_COMPACT_LISP2) so a
// caller can select it by name without depending on Lisp2 directly.
type Compressor struct {
	Marker Marker
}

func (c Compressor) Collect(h *Heap, roots []int, tags runtimeobj.WellKnownTags) (*Heap, []int, Stats, error) {
	newHeap, newRoots, stats, err := (MarkCompactLisp2Collector{Marker: c.Marker}).Collect(h, roots, tags)
	stats.Algorithm = "COMPRESSOR"
	return newHeap, newRoots, stats, err
}

// SemispaceCopyCollector copies every reachable object from the
// active half into the other half, then flips the heap (spec.md
// §4.8's SEMISPACE_COPY). Each copy's new offset is recorded in a
// side table keyed by its from-space offset, so an object reached
// through more than one path is copied exactly once; no forwarding
// address is written into the from-space objects, which are left
// unmodified.
type SemispaceCopyCollector struct{}

func (c SemispaceCopyCollector) Collect(h *Heap, roots []int, tags runtimeobj.WellKnownTags) (*Heap, []int, Stats, error) {
	to := h.Flip()
	copied := map[int]int{}

	var copyObj func(from int) int
	copyObj = func(from int) int {
		if existing, ok := copied[from]; ok {
			return existing
		}
		src := h.Header(from)
		size := src.Size()
		toOff := to.Cursor
		dst := to.Header(toOff)
		to.Cursor += size
		dst.SetTag(src.Tag())
		dst.SetSize(size)
		dst.SetDispatchTable(src.DispatchTable())
		dst.SetMarked(false)
		copied[from] = toOff
		fields := src.Fields()
		for i, v := range fields {
			dst.SetField(i, v)
		}
		if tags.IsString(src.Tag()) {
			if len(fields) > 0 {
				addr := int(fields[0])
				if addr >= h.Start && addr < h.End {
					dst.SetField(0, uint64(copyObj(addr)))
				}
			}
		} else if !tags.IsPrimitive(src.Tag()) {
			for i, v := range fields {
				addr := int(v)
				if addr >= h.Start && addr < h.End {
					dst.SetField(i, uint64(copyObj(addr)))
				}
			}
		}
		return toOff
	}

	newRoots := make([]int, len(roots))
	liveBytes := 0
	for i, r := range roots {
		if r < h.Start || r >= h.End {
			newRoots[i] = r
			continue
		}
		before := to.Cursor
		newRoots[i] = copyObj(r)
		liveBytes += to.Cursor - before
	}
	liveObjects := len(copied)
	reclaimed := (h.End - h.Start) - (to.Cursor - to.Start)

	stats := Stats{
		Algorithm:   "SEMISPACE_COPY",
		HeapSize:    to.End - to.Start,
		LiveObjects: liveObjects,
		LiveBytes:   liveBytes,
		Reclaimed:   reclaimed,
	}
	return to, newRoots, stats, nil
}
