// Package runtimeobj implements spec.md §3's "Object header (runtime)":
// the fixed-width header every heap object carries, constant tags,
// field iteration and mark-bit operations. Objects live in a flat
// byte heap (internal/gc owns the backing storage); this package only
// knows how to read and write the header and field words at a given
// offset, the same little-endian encoding/binary discipline the
// teacher's bytecode format uses (sentra-language-sentra's
// internal/buildutil/build.go serializes every word with
// binary.LittleEndian).
package runtimeobj

import "encoding/binary"

// WordSize is the machine word width in bytes this runtime targets.
const WordSize = 8

// HeaderWords is the header's width in words: mark, tag, size,
// dispatch-table pointer (spec.md §3's Object header table).
const HeaderWords = 4

// HeaderSize is the header's width in bytes.
const HeaderSize = HeaderWords * WordSize

// FreeTag marks a free chunk ("tag 0 ≡ unused / free chunk").
const FreeTag int32 = 0

// MarkBit is the single bit of the mark word this runtime uses; the
// rest of the word doubles as a forwarding address during compaction
// (spec.md §3: "mark ... also used as forwarding").
const MarkBit uint64 = 1

// Header is a view of one object's header at a fixed heap offset.
// It does not own the backing storage — internal/gc's Heap does —
// so copying a Header is cheap and aliases the same bytes.
type Header struct {
	Heap   []byte
	Offset int
}

func (h Header) markOffset() int   { return h.Offset }
func (h Header) tagOffset() int    { return h.Offset + WordSize }
func (h Header) sizeOffset() int   { return h.Offset + WordSize + 4 }
func (h Header) dtableOffset() int { return h.Offset + WordSize*2 + 4 }

// Mark returns the raw mark word (forwarding address when the high
// bits are in use; MarkBit alone when only mark/unmark matters).
func (h Header) Mark() uint64 {
	return binary.LittleEndian.Uint64(h.Heap[h.markOffset():])
}

// SetMark writes the raw mark word.
func (h Header) SetMark(v uint64) {
	binary.LittleEndian.PutUint64(h.Heap[h.markOffset():], v)
}

// IsMarked reports whether MarkBit is set.
func (h Header) IsMarked() bool { return h.Mark()&MarkBit != 0 }

// SetMarked sets or clears MarkBit, preserving any forwarding bits
// already stored above it.
func (h Header) SetMarked(marked bool) {
	v := h.Mark()
	if marked {
		v |= MarkBit
	} else {
		v &^= MarkBit
	}
	h.SetMark(v)
}

// ForwardingAddress reads the mark word's upper bits as a heap offset
// (Lisp2 compaction, spec.md §4.8; the threaded compactor uses
// Thread/SetThread instead).
func (h Header) ForwardingAddress() int {
	return int(h.Mark() >> 1)
}

// SetForwardingAddress packs offset into the mark word's upper bits,
// preserving MarkBit.
func (h Header) SetForwardingAddress(offset int) {
	h.SetMark(uint64(offset)<<1 | (h.Mark() & MarkBit))
}

// Tag returns the object's class tag (0 = free chunk).
func (h Header) Tag() int32 {
	return int32(binary.LittleEndian.Uint32(h.Heap[h.tagOffset():]))
}

// SetTag writes the object's class tag.
func (h Header) SetTag(tag int32) {
	binary.LittleEndian.PutUint32(h.Heap[h.tagOffset():], uint32(tag))
}

// IsFree reports whether this object is a free chunk.
func (h Header) IsFree() bool { return h.Tag() == FreeTag }

// Size returns the object's total size in bytes, header included.
func (h Header) Size() int {
	return int(binary.LittleEndian.Uint64(h.Heap[h.sizeOffset():]))
}

// SetSize writes the object's total size in bytes.
func (h Header) SetSize(size int) {
	binary.LittleEndian.PutUint64(h.Heap[h.sizeOffset():], uint64(size))
}

// Thread reads the size slot as a thread pointer, Jonkers'
// compaction reuse of that word (spec.md §4.8: "uses the size slot
// as a thread-pointer"). internal/gc's ThreadedCompactor calls this
// to recover a live object's forwarding address once it has threaded
// one in via SetThread, in place of a separate forwarding table.
func (h Header) Thread() int { return h.Size() }

// SetThread writes the size slot as a thread pointer.
func (h Header) SetThread(offset int) { h.SetSize(offset) }

// DispatchTable returns the dispatch-table pointer (a heap- or
// data-segment-relative offset; internal/data assigns the actual
// address space).
func (h Header) DispatchTable() uint64 {
	return binary.LittleEndian.Uint64(h.Heap[h.dtableOffset():])
}

// SetDispatchTable writes the dispatch-table pointer.
func (h Header) SetDispatchTable(addr uint64) {
	binary.LittleEndian.PutUint64(h.Heap[h.dtableOffset():], addr)
}

// FieldOffset returns the byte offset of field i (0-based, in words
// after the header).
func (h Header) FieldOffset(i int) int {
	return h.Offset + HeaderSize + i*WordSize
}

// FieldCount returns how many trailing words fall within Size(),
// given the header's own width.
func (h Header) FieldCount() int {
	return (h.Size() - HeaderSize) / WordSize
}

// Field reads field i as a raw word.
func (h Header) Field(i int) uint64 {
	return binary.LittleEndian.Uint64(h.Heap[h.FieldOffset(i):])
}

// SetField writes field i as a raw word.
func (h Header) SetField(i int, v uint64) {
	binary.LittleEndian.PutUint64(h.Heap[h.FieldOffset(i):], v)
}

// Fields iterates every field word in declaration order.
func (h Header) Fields() []uint64 {
	n := h.FieldCount()
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		out[i] = h.Field(i)
	}
	return out
}

// Next returns the header of the object immediately following this
// one in the heap (spec.md §3's "the heap is therefore walkable
// linearly at any time by adding size to the current pointer").
func (h Header) Next() Header {
	return Header{Heap: h.Heap, Offset: h.Offset + h.Size()}
}
