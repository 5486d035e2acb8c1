package runtimeobj

import "testing"

func newHeap(size int) []byte { return make([]byte, size) }

func TestHeaderTagAndSizeRoundTrip(t *testing.T) {
	heap := newHeap(64)
	h := Header{Heap: heap, Offset: 0}
	h.SetTag(7)
	h.SetSize(32)
	h.SetDispatchTable(0xdeadbeef)

	if h.Tag() != 7 {
		t.Fatalf("Tag() = %d, want 7", h.Tag())
	}
	if h.Size() != 32 {
		t.Fatalf("Size() = %d, want 32", h.Size())
	}
	if h.DispatchTable() != 0xdeadbeef {
		t.Fatalf("DispatchTable() = %x, want deadbeef", h.DispatchTable())
	}
	if h.IsFree() {
		t.Fatalf("IsFree() = true for a tagged object")
	}
}

func TestHeaderFreeChunkHasTagZero(t *testing.T) {
	heap := newHeap(32)
	h := Header{Heap: heap, Offset: 0}
	h.SetTag(FreeTag)
	if !h.IsFree() {
		t.Fatalf("IsFree() = false for tag 0")
	}
}

func TestMarkBitPreservesForwardingAddress(t *testing.T) {
	heap := newHeap(32)
	h := Header{Heap: heap, Offset: 0}

	h.SetForwardingAddress(128)
	if h.IsMarked() {
		t.Fatalf("IsMarked() = true before SetMarked")
	}
	h.SetMarked(true)
	if !h.IsMarked() {
		t.Fatalf("IsMarked() = false after SetMarked(true)")
	}
	if h.ForwardingAddress() != 128 {
		t.Fatalf("ForwardingAddress() = %d, want 128 (preserved across SetMarked)", h.ForwardingAddress())
	}

	h.SetMarked(false)
	if h.IsMarked() {
		t.Fatalf("IsMarked() = true after SetMarked(false)")
	}
	if h.ForwardingAddress() != 128 {
		t.Fatalf("ForwardingAddress() = %d, want 128 (preserved across unmark)", h.ForwardingAddress())
	}
}

func TestFieldsRoundTripAndCount(t *testing.T) {
	heap := newHeap(HeaderSize + 3*WordSize)
	h := Header{Heap: heap, Offset: 0}
	h.SetSize(HeaderSize + 3*WordSize)

	h.SetField(0, 10)
	h.SetField(1, 20)
	h.SetField(2, 30)

	if h.FieldCount() != 3 {
		t.Fatalf("FieldCount() = %d, want 3", h.FieldCount())
	}
	got := h.Fields()
	want := []uint64{10, 20, 30}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("Fields()[%d] = %d, want %d", i, got[i], v)
		}
	}
}

func TestNextWalksLinearlyBySize(t *testing.T) {
	first := HeaderSize + WordSize
	second := HeaderSize
	heap := newHeap(first + second)

	h1 := Header{Heap: heap, Offset: 0}
	h1.SetTag(1)
	h1.SetSize(first)

	h2 := Header{Heap: heap, Offset: first}
	h2.SetTag(2)
	h2.SetSize(second)

	walked := h1.Next()
	if walked.Offset != first {
		t.Fatalf("Next().Offset = %d, want %d", walked.Offset, first)
	}
	if walked.Tag() != 2 {
		t.Fatalf("Next().Tag() = %d, want 2", walked.Tag())
	}
}

func TestAlignRoundsUpTo16(t *testing.T) {
	cases := map[int]int{0: 0, 1: 16, 15: 16, 16: 16, 17: 32, 33: 48}
	for in, want := range cases {
		if got := Align(in); got != want {
			t.Fatalf("Align(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestWellKnownTagsClassification(t *testing.T) {
	w := WellKnownTags{Int: 2, Bool: 3, String: 4}
	if !w.IsPrimitive(2) || !w.IsPrimitive(3) {
		t.Fatalf("expected Int and Bool tags to be primitive")
	}
	if w.IsPrimitive(4) {
		t.Fatalf("String tag should not be classified as primitive")
	}
	if !w.IsString(4) {
		t.Fatalf("expected tag 4 to be classified as String")
	}
}
