package gc

// StackWalker produces the root set a collection cycle marks from:
// every heap address currently live in an activation record or
// register (spec.md §4.8's "the collector needs the root set: every
// heap pointer currently live outside the heap").
type StackWalker interface {
	Roots() []int
	// Relocate is called after a compacting collector has moved
	// objects, so the walker's own bookkeeping (shadow-stack slots,
	// register shadow copies) tracks the new addresses.
	Relocate(old, new []int)
}

// ShadowStack is the simplest walker: the emitter is expected to push
// a slot onto it for every live reference at a call site and pop it on
// return, mirroring the actual call stack one level removed so the
// collector never has to interpret machine frames.
type ShadowStack struct {
	slots []int
}

func NewShadowStack() *ShadowStack { return &ShadowStack{} }

func (s *ShadowStack) Push(addr int) { s.slots = append(s.slots, addr) }

func (s *ShadowStack) Pop() {
	if len(s.slots) > 0 {
		s.slots = s.slots[:len(s.slots)-1]
	}
}

func (s *ShadowStack) Roots() []int {
	out := make([]int, len(s.slots))
	copy(out, s.slots)
	return out
}

func (s *ShadowStack) Relocate(old, new []int) {
	index := make(map[int]int, len(old))
	for i, addr := range old {
		index[addr] = new[i]
	}
	for i, addr := range s.slots {
		if moved, ok := index[addr]; ok {
			s.slots[i] = moved
		}
	}
}

// StackMapEntry describes one call site's live-reference offsets into
// a single conceptual frame, the information an LLVM-style "stack map"
// section (format version 3) records instead of an explicit shadow
// stack: the emitter records, per return address, which frame slots
// hold heap pointers, and the walker reads that table at GC time
// instead of having the program push/pop anything.
type StackMapEntry struct {
	ReturnAddress int
	FrameBase     int
	SlotOffsets   []int // byte offsets from FrameBase holding a live reference
}

// StackMap is a stack walker driven by a static table of
// StackMapEntry plus a runtime list of currently active frames (return
// address, frame base) the interpreter/runtime maintains as it calls
// and returns. This is the "version 3" format spec.md §4.8 references:
// one entry per call site rather than one per function.
type StackMap struct {
	Entries []StackMapEntry
	byRA    map[int]StackMapEntry
	Frames  []ActiveFrame
}

// ActiveFrame names one live call: its return address identifies
// which StackMapEntry describes its layout, FrameBase is where that
// entry's SlotOffsets are relative to.
type ActiveFrame struct {
	ReturnAddress int
	FrameBase     int
}

func NewStackMap(entries []StackMapEntry) *StackMap {
	byRA := make(map[int]StackMapEntry, len(entries))
	for _, e := range entries {
		byRA[e.ReturnAddress] = e
	}
	return &StackMap{Entries: entries, byRA: byRA}
}

func (m *StackMap) PushFrame(f ActiveFrame) { m.Frames = append(m.Frames, f) }

func (m *StackMap) PopFrame() {
	if len(m.Frames) > 0 {
		m.Frames = m.Frames[:len(m.Frames)-1]
	}
}

// Roots reads, for every active frame, the heap addresses named by
// its call site's recorded slot offsets.
func (m *StackMap) Roots() []int {
	var roots []int
	for _, f := range m.Frames {
		entry, ok := m.byRA[f.ReturnAddress]
		if !ok {
			continue
		}
		for _, off := range entry.SlotOffsets {
			roots = append(roots, f.FrameBase+off)
		}
	}
	return roots
}

func (m *StackMap) Relocate(old, new []int) {
	// The stack map table itself is static; only the actual field
	// values at each frame slot move, and those live in the frame
	// memory the runtime owns, not in this walker. Nothing to do here
	// beyond what the runtime's own frame storage already handles.
}
