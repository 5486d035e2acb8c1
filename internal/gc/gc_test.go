package gc

import (
	"testing"

	"coolc/internal/runtimeobj"
)

var testTags = runtimeobj.WellKnownTags{Int: 1, Bool: 2, String: 3}

const objTag int32 = 10

// allocTwoLinked builds two live objects on h, the second holding a
// pointer to the first in field 0, and returns their offsets.
func allocTwoLinked(t *testing.T, h *Heap, alloc Allocator) (a, b int) {
	t.Helper()
	a, ok := alloc.Allocate(h, objTag, 1, 0)
	if !ok {
		t.Fatalf("allocate a failed")
	}
	b, ok = alloc.Allocate(h, objTag, 1, 0)
	if !ok {
		t.Fatalf("allocate b failed")
	}
	h.Header(b).SetField(0, uint64(a))
	return a, b
}

func TestNextFitAllocatorPlacesAndTracksCursor(t *testing.T) {
	h := NewHeap(256)
	var alloc NextFitAllocator
	off, ok := alloc.Allocate(h, objTag, 2, 0xABCD)
	if !ok {
		t.Fatalf("allocate failed")
	}
	if off != h.Start {
		t.Fatalf("offset = %d, want %d", off, h.Start)
	}
	hdr := h.Header(off)
	if hdr.Tag() != objTag || hdr.DispatchTable() != 0xABCD {
		t.Fatalf("header not written correctly: tag=%d dtable=%x", hdr.Tag(), hdr.DispatchTable())
	}
	if h.Cursor != off+hdr.Size() {
		t.Fatalf("cursor = %d, want %d", h.Cursor, off+hdr.Size())
	}
}

func TestNextFitAllocatorCoalescesFreeChunks(t *testing.T) {
	h := NewHeap(256)
	var alloc NextFitAllocator

	a, ok := alloc.Allocate(h, objTag, 1, 0)
	if !ok {
		t.Fatalf("allocate a failed")
	}
	b, ok := alloc.Allocate(h, objTag, 1, 0)
	if !ok {
		t.Fatalf("allocate b failed")
	}
	// Free both by hand (as mark-sweep would) and request an object
	// that needs more room than either chunk alone provides.
	h.Header(a).SetTag(runtimeobj.FreeTag)
	h.Header(b).SetTag(runtimeobj.FreeTag)
	h.Header(a).SetSize(h.Header(a).Size()) // unchanged; coalesce happens in Allocate
	h.Cursor = a

	off, ok := alloc.Allocate(h, objTag, 3, 0)
	if !ok {
		t.Fatalf("allocate after coalesce failed")
	}
	if off != a {
		t.Fatalf("offset = %d, want coalesced chunk at %d", off, a)
	}
}

func TestNextFitAllocatorReturnsFalseOnOOM(t *testing.T) {
	h := NewHeap(32) // exactly one small object's worth
	var alloc NextFitAllocator
	if _, ok := alloc.Allocate(h, objTag, 100, 0); ok {
		t.Fatalf("expected OOM for oversized request")
	}
}

func TestSemispaceAllocatorBumpsCursor(t *testing.T) {
	h := NewSemispaceHeap(128)
	var alloc SemispaceAllocator
	off1, ok := alloc.Allocate(h, objTag, 1, 0)
	if !ok {
		t.Fatalf("first allocate failed")
	}
	off2, ok := alloc.Allocate(h, objTag, 1, 0)
	if !ok {
		t.Fatalf("second allocate failed")
	}
	if off2 <= off1 {
		t.Fatalf("expected monotonically increasing offsets, got %d then %d", off1, off2)
	}
}

func TestLIFOMarkerReachesTransitiveObjects(t *testing.T) {
	h := NewHeap(256)
	var alloc NextFitAllocator
	a, b := allocTwoLinked(t, h, alloc)

	(LIFOMarker{}).Mark(h, []int{b}, testTags)

	if !h.Header(a).IsMarked() {
		t.Fatalf("object reachable only via b's field was not marked")
	}
	if !h.Header(b).IsMarked() {
		t.Fatalf("root object was not marked")
	}
}

func TestMarkersAgreeOnReachability(t *testing.T) {
	h := NewHeap(256)
	var alloc NextFitAllocator
	a, b := allocTwoLinked(t, h, alloc)
	roots := []int{b}

	for _, m := range []Marker{LIFOMarker{}, FIFOMarker{}, EdgeFIFOMarker{}} {
		h.Header(a).SetMarked(false)
		h.Header(b).SetMarked(false)
		m.Mark(h, roots, testTags)
		if !h.Header(a).IsMarked() || !h.Header(b).IsMarked() {
			t.Fatalf("%T failed to mark reachable set", m)
		}
	}
}

func TestMarkSweepCollectorReclaimsUnreachable(t *testing.T) {
	h := NewHeap(256)
	var alloc NextFitAllocator
	live, _ := alloc.Allocate(h, objTag, 1, 0)
	dead, _ := alloc.Allocate(h, objTag, 1, 0)
	_ = dead

	newHeap, roots, stats, err := (MarkSweepCollector{}).Collect(h, []int{live}, testTags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newHeap != h {
		t.Fatalf("mark-sweep should not relocate the heap")
	}
	if roots[0] != live {
		t.Fatalf("mark-sweep should not relocate roots")
	}
	if stats.Reclaimed == 0 {
		t.Fatalf("expected a nonzero reclaim, dead object was never freed")
	}
	if h.Header(live).IsMarked() {
		t.Fatalf("mark bit should be cleared after the sweep")
	}
}

func TestLisp2CollectorCompactsAndRewritesReference(t *testing.T) {
	h := NewHeap(256)
	var alloc NextFitAllocator
	// dead, live(->dead is not reachable but an interior pointer
	// target), referrer holds a pointer to referent.
	_, _ = alloc.Allocate(h, objTag, 1, 0) // garbage ahead of the survivors
	referent, _ := alloc.Allocate(h, objTag, 1, 0)
	referrer, _ := alloc.Allocate(h, objTag, 1, 0)
	h.Header(referrer).SetField(0, uint64(referent))

	newHeap, roots, stats, err := (MarkCompactLisp2Collector{}).Collect(h, []int{referrer}, testTags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newHeap != h {
		t.Fatalf("lisp2 compacts in place")
	}
	newReferrer := roots[0]
	if newReferrer >= referrer {
		t.Fatalf("referrer should have slid down after reclaiming the leading garbage, got %d (was %d)", newReferrer, referrer)
	}
	fixedUp := int(h.Header(newReferrer).Field(0))
	if h.Header(fixedUp).Tag() != objTag {
		t.Fatalf("referrer's field was not rewritten to the referent's new address")
	}
	if stats.LiveObjects != 2 {
		t.Fatalf("LiveObjects = %d, want 2", stats.LiveObjects)
	}
}

func TestThreadedCompactorProducesSameLiveSetAsLisp2(t *testing.T) {
	h1 := NewHeap(256)
	var alloc NextFitAllocator
	_, _ = alloc.Allocate(h1, objTag, 1, 0)
	referent, _ := alloc.Allocate(h1, objTag, 1, 0)
	referrer, _ := alloc.Allocate(h1, objTag, 1, 0)
	h1.Header(referrer).SetField(0, uint64(referent))

	_, _, stats, err := (ThreadedCompactor{}).Collect(h1, []int{referrer}, testTags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.LiveObjects != 2 {
		t.Fatalf("LiveObjects = %d, want 2", stats.LiveObjects)
	}
	if stats.Reclaimed == 0 {
		t.Fatalf("expected the leading garbage object to be reclaimed")
	}
}

func TestSemispaceCopyCollectorPreservesGraphShape(t *testing.T) {
	h := NewSemispaceHeap(256)
	var alloc SemispaceAllocator
	referent, _ := alloc.Allocate(h, objTag, 1, 0)
	referrer, _ := alloc.Allocate(h, objTag, 1, 0)
	h.Header(referrer).SetField(0, uint64(referent))

	newHeap, roots, stats, err := (SemispaceCopyCollector{}).Collect(h, []int{referrer}, testTags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if newHeap == h {
		t.Fatalf("semispace copy should switch the active half")
	}
	newReferrer := roots[0]
	copiedReferent := int(newHeap.Header(newReferrer).Field(0))
	if newHeap.Header(copiedReferent).Tag() != objTag {
		t.Fatalf("copied referrer's field does not point at a valid copied object")
	}
	if stats.LiveObjects != 2 {
		t.Fatalf("LiveObjects = %d, want 2", stats.LiveObjects)
	}
}

func TestZeroCollectorAlwaysErrors(t *testing.T) {
	h := NewHeap(64)
	if _, _, _, err := (ZeroCollector{}).Collect(h, nil, testTags); err == nil {
		t.Fatalf("expected ZERO collector to report an error")
	}
}

func TestShadowStackRelocateFollowsCompaction(t *testing.T) {
	stack := NewShadowStack()
	stack.Push(40)
	stack.Push(80)
	stack.Relocate([]int{40, 80}, []int{8, 16})
	roots := stack.Roots()
	if roots[0] != 8 || roots[1] != 16 {
		t.Fatalf("Roots() = %v, want [8 16]", roots)
	}
}

func TestStackMapRootsReadsActiveFrameSlots(t *testing.T) {
	m := NewStackMap([]StackMapEntry{
		{ReturnAddress: 0x100, FrameBase: 0, SlotOffsets: []int{0, 16}},
	})
	m.PushFrame(ActiveFrame{ReturnAddress: 0x100, FrameBase: 64})
	roots := m.Roots()
	want := []int{64, 80}
	if len(roots) != 2 || roots[0] != want[0] || roots[1] != want[1] {
		t.Fatalf("Roots() = %v, want %v", roots, want)
	}
}

func TestRuntimeAllocateCollectsOnceThenRetries(t *testing.T) {
	h := NewHeap(96)
	var alloc NextFitAllocator
	dead, _ := alloc.Allocate(h, objTag, 1, 0) // nothing roots this

	walker := NewShadowStack()
	r := &Runtime{
		Heap:      h,
		Allocator: alloc,
		Collector: MarkSweepCollector{},
		Walker:    walker,
		Tags:      testTags,
	}

	off, err := r.Allocate(objTag, 8, 0) // big enough to force a collection
	if err != nil {
		t.Fatalf("unexpected OOM after collection freed %d: %v", dead, err)
	}
	if len(r.Stats) != 1 {
		t.Fatalf("expected exactly one collection cycle, got %d", len(r.Stats))
	}
	if off < h.Start || off >= h.End {
		t.Fatalf("returned offset %d out of heap bounds", off)
	}
}

func TestRuntimeAllocateAbortsWhenStillExhausted(t *testing.T) {
	h := NewHeap(64)
	var alloc NextFitAllocator
	live, _ := alloc.Allocate(h, objTag, 1, 0)

	walker := NewShadowStack()
	walker.Push(live)
	r := &Runtime{
		Heap:      h,
		Allocator: alloc,
		Collector: MarkSweepCollector{},
		Walker:    walker,
		Tags:      testTags,
	}

	if _, err := r.Allocate(objTag, 100, 0); err == nil {
		t.Fatalf("expected allocation failure when everything stays live")
	}
}
