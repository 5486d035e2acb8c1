package ir

import "fmt"

// Block is one basic block: spec.md §3's "list of instructions,
// predecessor and successor lists, post-order number slot, unique id."
type Block struct {
	ID           int
	Name         string
	Instructions []Instruction
	Preds, Succs []*Block

	// PostOrderNum is written back by internal/cfg traversals
	// (spec.md §4.5).
	PostOrderNum int
}

// Label returns b's symbolic name for IR text dumps.
func (b *Block) Label() string {
	if b.Name != "" {
		return b.Name
	}
	return fmt.Sprintf("bb%d", b.ID)
}

// Append adds instr to the end of b, binding its block pointer.
func (b *Block) Append(instr Instruction) {
	instr.setBlock(b)
	b.Instructions = append(b.Instructions, instr)
}

// Prepend inserts instr at the top of b (used by phi insertion,
// spec.md §4.6 step 1: "insert a phi at the top of y").
func (b *Block) Prepend(instr Instruction) {
	instr.setBlock(b)
	b.Instructions = append([]Instruction{instr}, b.Instructions...)
}

// Erase removes instr from b, severing its use-def edges with every
// operand it used.
func (b *Block) Erase(instr Instruction) {
	for i, in := range b.Instructions {
		if in == instr {
			b.Instructions = append(b.Instructions[:i], b.Instructions[i+1:]...)
			break
		}
	}
	for _, use := range instr.Uses() {
		if use != nil {
			use.removeUse(instr)
		}
	}
}

// Phis returns the leading run of Phi instructions in b.
func (b *Block) Phis() []*Phi {
	var phis []*Phi
	for _, in := range b.Instructions {
		p, ok := in.(*Phi)
		if !ok {
			break
		}
		phis = append(phis, p)
	}
	return phis
}

// Terminator returns b's last instruction if it is a terminator, or nil.
func (b *Block) Terminator() Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	if last.IsTerminator() {
		return last
	}
	return nil
}

// Connect links from -> to as predecessor/successor.
func Connect(from, to *Block) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}
