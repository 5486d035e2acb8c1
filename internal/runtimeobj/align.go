package runtimeobj

// Alignment is the allocator's object-size boundary (spec.md §4.8:
// "All sizes are aligned to a 16-byte boundary").
const Alignment = 16

// Align rounds size up to Alignment.
func Align(size int) int {
	return (size + Alignment - 1) &^ (Alignment - 1)
}
