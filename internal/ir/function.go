package ir

import "fmt"

// Function is spec.md §3's IR function: "parameter operands, return
// type, pointer to CFG root block, leaf flag." It also satisfies
// Operand so it can appear as a Call's callee, matching spec.md §3's
// operand hierarchy ("subclasses are ... Function").
type Function struct {
	base
	Name    string
	Params  []*Variable
	RetType Type
	Entry   *Block
	Leaf    bool // no calls in its body; no pass in this module sets it

	Blocks      []*Block
	nextBlockID int
}

// NewFunction creates an empty function with no blocks.
func NewFunction(name string, params []*Variable, retType Type) *Function {
	return &Function{base: base{typ: Pointer}, Name: name, Params: params, RetType: retType}
}

func (f *Function) String() string { return "@" + f.Name }

// NewBlock allocates a fresh block owned by f and appends it to
// f.Blocks, assigning it the next sequential id.
func (f *Function) NewBlock(name string) *Block {
	b := &Block{ID: f.nextBlockID, Name: name}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	return b
}

// Instructions iterates every instruction in f, block by block, in
// f.Blocks order (not necessarily reverse-post-order; callers that
// need a specific order should traverse via internal/cfg first).
func (f *Function) Instructions() []Instruction {
	var out []Instruction
	for _, b := range f.Blocks {
		out = append(out, b.Instructions...)
	}
	return out
}

// Variables returns every distinct Variable defined or used anywhere
// in f, including its formal parameters.
func (f *Function) Variables() []*Variable {
	seen := make(map[*Variable]bool)
	var out []*Variable
	add := func(v *Variable) {
		if v != nil && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	for _, p := range f.Params {
		add(p)
	}
	for _, instr := range f.Instructions() {
		if v, ok := instr.Def().(*Variable); ok {
			add(v)
		}
		for _, use := range instr.Uses() {
			if v, ok := use.(*Variable); ok {
				add(v)
			}
		}
	}
	return out
}

func (f *Function) GoString() string {
	return fmt.Sprintf("Function{%s, %d blocks}", f.Name, len(f.Blocks))
}
