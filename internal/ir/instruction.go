package ir

import (
	"fmt"
	"strings"
)

// Instruction is the abstract IR instruction: an optional definition
// plus an ordered use list (spec.md §3 "Instruction"). Each concrete
// variant additionally exposes its own typed accessors; generic
// passes (dominance, SSA renaming, optimisations) go through this
// interface only.
type Instruction interface {
	Block() *Block
	setBlock(*Block)

	// Def returns the operand this instruction defines, or nil.
	Def() Operand
	// Uses returns this instruction's operands, in a fixed order
	// matching the variant's field order.
	Uses() []Operand
	// ReplaceOperand rewrites every occurrence of old with repl among
	// this instruction's uses, maintaining both sides of the use-def
	// edge. It reports whether anything was rewritten.
	ReplaceOperand(old, repl Operand) bool

	// IsTerminator reports whether this instruction ends a block.
	IsTerminator() bool

	String() string
}

// instBase is embedded by every concrete instruction for block linkage.
type instBase struct {
	blk *Block
}

func (b *instBase) Block() *Block      { return b.blk }
func (b *instBase) setBlock(blk *Block) { b.blk = blk }
func (b *instBase) IsTerminator() bool  { return false }

// bindUses registers instr as a user of every non-nil operand in ops.
func bindUses(instr Instruction, ops ...Operand) {
	for _, op := range ops {
		if op != nil {
			op.addUse(instr)
		}
	}
}

// PhiPath is one incoming (predecessor, value) pair of a Phi.
type PhiPath struct {
	Block *Block
	Value Operand
}

// Phi is spec.md §4.4's phi node: "def paths are (predecessor-block,
// operand). Adding a path updates def-use edges on the operand."
type Phi struct {
	instBase
	Dest  *Variable
	Paths []PhiPath
}

func NewPhi(dest *Variable) *Phi {
	p := &Phi{Dest: dest}
	dest.SetDef(p)
	return p
}

// AddPath adds one incoming edge, binding the def-use edge on value.
func (p *Phi) AddPath(pred *Block, value Operand) {
	p.Paths = append(p.Paths, PhiPath{Block: pred, Value: value})
	if value != nil {
		value.addUse(p)
	}
}

func (p *Phi) Def() Operand { return p.Dest }

func (p *Phi) Uses() []Operand {
	out := make([]Operand, len(p.Paths))
	for i, path := range p.Paths {
		out[i] = path.Value
	}
	return out
}

func (p *Phi) ReplaceOperand(old, repl Operand) bool {
	changed := false
	for i := range p.Paths {
		if p.Paths[i].Value == old {
			old.removeUse(p)
			p.Paths[i].Value = repl
			if repl != nil {
				repl.addUse(p)
			}
			changed = true
		}
	}
	return changed
}

func (p *Phi) String() string {
	parts := make([]string, len(p.Paths))
	for i, path := range p.Paths {
		parts[i] = fmt.Sprintf("[%s, %s]", path.Value, path.Block.Label())
	}
	return fmt.Sprintf("%s = phi %s", p.Dest, strings.Join(parts, ", "))
}

// Load is spec.md §4.4's `Load(def, base, offset)`: one def, two uses.
type Load struct {
	instBase
	Dest         *Variable
	Base, Offset Operand
}

func NewLoad(dest *Variable, base, offset Operand) *Load {
	l := &Load{Dest: dest, Base: base, Offset: offset}
	dest.SetDef(l)
	bindUses(l, base, offset)
	return l
}

func (l *Load) Def() Operand      { return l.Dest }
func (l *Load) Uses() []Operand   { return []Operand{l.Base, l.Offset} }
func (l *Load) String() string    { return fmt.Sprintf("%s = load %s[%s]", l.Dest, l.Base, l.Offset) }

func (l *Load) ReplaceOperand(old, repl Operand) bool {
	changed := false
	if l.Base == old {
		l.Base = replace(old, repl, l)
		changed = true
	}
	if l.Offset == old {
		l.Offset = replace(old, repl, l)
		changed = true
	}
	return changed
}

// Store is spec.md §4.4's `Store(base, offset, value)`: no def, three uses.
type Store struct {
	instBase
	Base, Offset, Value Operand
}

func NewStore(base, offset, value Operand) *Store {
	s := &Store{Base: base, Offset: offset, Value: value}
	bindUses(s, base, offset, value)
	return s
}

func (s *Store) Def() Operand    { return nil }
func (s *Store) Uses() []Operand { return []Operand{s.Base, s.Offset, s.Value} }
func (s *Store) String() string  { return fmt.Sprintf("store %s[%s] = %s", s.Base, s.Offset, s.Value) }

func (s *Store) ReplaceOperand(old, repl Operand) bool {
	changed := false
	if s.Base == old {
		s.Base = replace(old, repl, s)
		changed = true
	}
	if s.Offset == old {
		s.Offset = replace(old, repl, s)
		changed = true
	}
	if s.Value == old {
		s.Value = replace(old, repl, s)
		changed = true
	}
	return changed
}

// Branch is an unconditional terminator.
type Branch struct {
	instBase
	Target *Block
}

func NewBranch(target *Block) *Branch { return &Branch{Target: target} }

func (b *Branch) Def() Operand       { return nil }
func (b *Branch) Uses() []Operand    { return nil }
func (b *Branch) ReplaceOperand(Operand, Operand) bool { return false }
func (b *Branch) IsTerminator() bool { return true }
func (b *Branch) String() string     { return fmt.Sprintf("branch %s", b.Target.Label()) }

// CondBranch is spec.md §4.4's `CondBranch(cond, taken, not-taken)`:
// terminator, one use.
type CondBranch struct {
	instBase
	Cond              Operand
	Taken, NotTaken   *Block
}

func NewCondBranch(cond Operand, taken, notTaken *Block) *CondBranch {
	c := &CondBranch{Cond: cond, Taken: taken, NotTaken: notTaken}
	bindUses(c, cond)
	return c
}

func (c *CondBranch) Def() Operand    { return nil }
func (c *CondBranch) Uses() []Operand { return []Operand{c.Cond} }
func (c *CondBranch) IsTerminator() bool { return true }

func (c *CondBranch) ReplaceOperand(old, repl Operand) bool {
	if c.Cond == old {
		c.Cond = replace(old, repl, c)
		return true
	}
	return false
}

func (c *CondBranch) String() string {
	return fmt.Sprintf("cbranch %s, %s, %s", c.Cond, c.Taken.Label(), c.NotTaken.Label())
}

// BinaryOperator enumerates spec.md §4.4's binary arithmetic/logic ops.
type BinaryOperator int

const (
	BinAdd BinaryOperator = iota
	BinSub
	BinMul
	BinDiv
	BinLt
	BinLe
	BinEq
)

func (op BinaryOperator) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinLt:
		return "<"
	case BinLe:
		return "<="
	case BinEq:
		return "=="
	default:
		return "?"
	}
}

// BinaryInst computes Dest = LHS Op RHS. Result type equals LHS's
// type, per spec.md §4.4.
type BinaryInst struct {
	instBase
	Op       BinaryOperator
	Dest     *Variable
	LHS, RHS Operand
}

func NewBinaryInst(op BinaryOperator, dest *Variable, lhs, rhs Operand) *BinaryInst {
	b := &BinaryInst{Op: op, Dest: dest, LHS: lhs, RHS: rhs}
	dest.SetDef(b)
	bindUses(b, lhs, rhs)
	return b
}

func (b *BinaryInst) Def() Operand    { return b.Dest }
func (b *BinaryInst) Uses() []Operand { return []Operand{b.LHS, b.RHS} }
func (b *BinaryInst) String() string  { return fmt.Sprintf("%s = %s %s %s", b.Dest, b.LHS, b.Op, b.RHS) }

func (b *BinaryInst) ReplaceOperand(old, repl Operand) bool {
	changed := false
	if b.LHS == old {
		b.LHS = replace(old, repl, b)
		changed = true
	}
	if b.RHS == old {
		b.RHS = replace(old, repl, b)
		changed = true
	}
	return changed
}

// UnaryOperator enumerates spec.md §4.4's unary ops.
type UnaryOperator int

const (
	UnNeg UnaryOperator = iota
	UnNot
	UnIsVoid
)

func (op UnaryOperator) String() string {
	switch op {
	case UnNeg:
		return "-"
	case UnNot:
		return "!"
	case UnIsVoid:
		return "isvoid"
	default:
		return "?"
	}
}

// UnaryInst computes Dest = Op Operand. Result type equals the
// operand's type, per spec.md §4.4.
type UnaryInst struct {
	instBase
	Op      UnaryOperator
	Dest    *Variable
	Operand Operand
}

func NewUnaryInst(op UnaryOperator, dest *Variable, operand Operand) *UnaryInst {
	u := &UnaryInst{Op: op, Dest: dest, Operand: operand}
	dest.SetDef(u)
	bindUses(u, operand)
	return u
}

func (u *UnaryInst) Def() Operand    { return u.Dest }
func (u *UnaryInst) Uses() []Operand { return []Operand{u.Operand} }
func (u *UnaryInst) String() string  { return fmt.Sprintf("%s = %s%s", u.Dest, u.Op, u.Operand) }

func (u *UnaryInst) ReplaceOperand(old, repl Operand) bool {
	if u.Operand == old {
		u.Operand = replace(old, repl, u)
		return true
	}
	return false
}

// Move is an identity assignment, used by optimisations and SSA
// renaming (spec.md §4.4).
type Move struct {
	instBase
	Dest *Variable
	Src  Operand
}

func NewMove(dest *Variable, src Operand) *Move {
	m := &Move{Dest: dest, Src: src}
	dest.SetDef(m)
	bindUses(m, src)
	return m
}

func (m *Move) Def() Operand    { return m.Dest }
func (m *Move) Uses() []Operand { return []Operand{m.Src} }
func (m *Move) String() string  { return fmt.Sprintf("%s = %s", m.Dest, m.Src) }

func (m *Move) ReplaceOperand(old, repl Operand) bool {
	if m.Src == old {
		m.Src = replace(old, repl, m)
		return true
	}
	return false
}

// Call invokes Callee with Args. Dest is present iff Callee returns
// non-void (spec.md §4.4).
type Call struct {
	instBase
	Callee Operand
	Dest   *Variable // nil for void calls
	Args   []Operand
}

func NewCall(callee Operand, dest *Variable, args []Operand) *Call {
	c := &Call{Callee: callee, Dest: dest, Args: args}
	if dest != nil {
		dest.SetDef(c)
	}
	bindUses(c, callee)
	bindUses(c, args...)
	return c
}

func (c *Call) Def() Operand {
	if c.Dest == nil {
		return nil
	}
	return c.Dest
}

func (c *Call) Uses() []Operand {
	out := make([]Operand, 0, len(c.Args)+1)
	out = append(out, c.Callee)
	out = append(out, c.Args...)
	return out
}

func (c *Call) ReplaceOperand(old, repl Operand) bool {
	changed := false
	if c.Callee == old {
		c.Callee = replace(old, repl, c)
		changed = true
	}
	for i, a := range c.Args {
		if a == old {
			old.removeUse(c)
			c.Args[i] = repl
			if repl != nil {
				repl.addUse(c)
			}
			changed = true
		}
	}
	return changed
}

func (c *Call) String() string {
	if c.Dest != nil {
		return fmt.Sprintf("%s = call %s(%v)", c.Dest, c.Callee, c.Args)
	}
	return fmt.Sprintf("call %s(%v)", c.Callee, c.Args)
}

// Ret returns from the current function. Value is nil for a void
// return (spec.md §4.4, terminator, zero or one use).
type Ret struct {
	instBase
	Value Operand
}

func NewRet(value Operand) *Ret {
	r := &Ret{Value: value}
	bindUses(r, value)
	return r
}

func (r *Ret) Def() Operand { return nil }

func (r *Ret) Uses() []Operand {
	if r.Value == nil {
		return nil
	}
	return []Operand{r.Value}
}

func (r *Ret) ReplaceOperand(old, repl Operand) bool {
	if r.Value == old {
		r.Value = replace(old, repl, r)
		return true
	}
	return false
}

func (r *Ret) IsTerminator() bool { return true }

func (r *Ret) String() string {
	if r.Value == nil {
		return "ret"
	}
	return fmt.Sprintf("ret %s", r.Value)
}

// replace performs the def-use bookkeeping half of an operand
// substitution and returns repl, so call sites can write
// `field = replace(old, repl, instr)`.
func replace(old, repl Operand, instr Instruction) Operand {
	if old != nil {
		old.removeUse(instr)
	}
	if repl != nil {
		repl.addUse(instr)
	}
	return repl
}
