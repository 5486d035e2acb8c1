package gc

import "coolc/internal/runtimeobj"

// Allocator implements spec.md §4.8's allocator contract: given a
// class tag, a field count and its dispatch-table pointer, hand back
// an object's offset into the heap, or ok=false on out-of-memory. All
// allocation requests are rounded up to a 16-byte boundary
// (runtimeobj.Align), header included.
type Allocator interface {
	Allocate(h *Heap, tag int32, fieldCount int, dispatchTable uint64) (offset int, ok bool)
}

func objectSize(fieldCount int) int {
	return runtimeobj.Align(runtimeobj.HeaderSize + fieldCount*runtimeobj.WordSize)
}

// NextFitAllocator maintains free chunks in place as tag-0 objects so
// the heap stays linearly walkable at all times. Allocation walks
// forward from the cursor, coalescing consecutive free chunks, until
// it finds one large enough; it wraps once around the heap before
// giving up.
type NextFitAllocator struct{}

func (NextFitAllocator) Allocate(h *Heap, tag int32, fieldCount int, dispatchTable uint64) (int, bool) {
	size := objectSize(fieldCount)
	if h.Cursor < h.Start || h.Cursor >= h.End {
		h.Cursor = h.Start
	}
	start := h.Cursor
	offset := start
	wrapped := false
	for {
		if offset >= h.End {
			offset = h.Start
			wrapped = true
		}
		if wrapped && offset >= start {
			return 0, false
		}
		hdr := h.Header(offset)
		objSize := hdr.Size()
		if objSize <= 0 {
			return 0, false // malformed heap
		}
		if !hdr.IsFree() {
			offset += objSize
			continue
		}
		chunkSize := coalesce(h, offset)
		if chunkSize >= size {
			placeObject(h, offset, chunkSize, size, tag, dispatchTable)
			h.Cursor = offset + size
			return offset, true
		}
		offset += chunkSize
	}
}

// coalesce merges offset's free chunk with every immediately
// following free chunk, writing the merged size back, and returns the
// merged size.
func coalesce(h *Heap, offset int) int {
	hdr := h.Header(offset)
	size := hdr.Size()
	for {
		next := h.Header(offset + size)
		if next.Offset >= h.End || !next.IsFree() {
			break
		}
		size += next.Size()
	}
	hdr.SetSize(size)
	return size
}

// placeObject carves a size-byte object with the given tag out of a
// chunkSize-byte free chunk at offset, leaving the remainder (if any)
// as a fresh free chunk.
func placeObject(h *Heap, offset, chunkSize, size int, tag int32, dispatchTable uint64) {
	hdr := h.Header(offset)
	hdr.SetTag(tag)
	hdr.SetSize(size)
	hdr.SetDispatchTable(dispatchTable)
	hdr.SetMarked(false)
	if remainder := chunkSize - size; remainder > 0 {
		rest := h.Header(offset + size)
		rest.SetTag(runtimeobj.FreeTag)
		rest.SetSize(remainder)
	}
}

// SemispaceAllocator is a bump-pointer allocator for the active
// semispace half: no free list, no coalescing, because collection
// (SemispaceCopyCollector) always leaves the active half holding only
// live objects packed from Start.
type SemispaceAllocator struct{}

func (SemispaceAllocator) Allocate(h *Heap, tag int32, fieldCount int, dispatchTable uint64) (int, bool) {
	size := objectSize(fieldCount)
	if h.Cursor+size > h.End {
		return 0, false
	}
	offset := h.Cursor
	hdr := h.Header(offset)
	hdr.SetTag(tag)
	hdr.SetSize(size)
	hdr.SetDispatchTable(dispatchTable)
	hdr.SetMarked(false)
	h.Cursor = offset + size
	return offset, true
}
