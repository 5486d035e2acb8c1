package ir

import "fmt"

// Builder is spec.md §4.4's IRBuilder: it carries a "current block"
// cursor, and each convenience method appends an instruction to the
// current block and returns the fresh result operand (or a folded
// constant, when the fold rules below apply).
type Builder struct {
	Func     *Function
	cur      *Block
	nextTemp int
}

// NewBuilder creates a builder over fn, initially positioned at
// fn.Entry if it is already set.
func NewBuilder(fn *Function) *Builder {
	return &Builder{Func: fn, cur: fn.Entry}
}

// SetBlock repositions the cursor.
func (b *Builder) SetBlock(blk *Block) { b.cur = blk }

// Block returns the current cursor block.
func (b *Builder) Block() *Block { return b.cur }

func (b *Builder) temp(t Type) *Variable {
	name := fmt.Sprintf("%%t%d", b.nextTemp)
	b.nextTemp++
	return NewVariable(name, t)
}

// BinaryOp appends lhs op rhs, or — when both operands are already
// Constants — folds it to a Constant at build time instead of
// emitting an instruction (spec.md §4.4's fold rule).
func (b *Builder) BinaryOp(op BinaryOperator, lhs, rhs Operand) Operand {
	if lc, ok := lhs.(*Constant); ok {
		if rc, ok := rhs.(*Constant); ok {
			if folded, ok := foldBinary(op, lc, rc); ok {
				return folded
			}
		}
	}
	dest := b.temp(lhs.Type())
	b.cur.Append(NewBinaryInst(op, dest, lhs, rhs))
	return dest
}

func foldBinary(op BinaryOperator, l, r *Constant) (*Constant, bool) {
	li, lok := l.Value.(int64)
	ri, rok := r.Value.(int64)
	if !lok || !rok {
		return nil, false
	}
	switch op {
	case BinAdd:
		return NewConstant(li+ri, l.typ), true
	case BinSub:
		return NewConstant(li-ri, l.typ), true
	case BinMul:
		return NewConstant(li*ri, l.typ), true
	case BinDiv:
		if ri == 0 {
			return nil, false // division by zero is a runtime abort, not a fold
		}
		return NewConstant(li/ri, l.typ), true
	case BinLt:
		return NewConstant(li < ri, Uint8), true
	case BinLe:
		return NewConstant(li <= ri, Uint8), true
	case BinEq:
		return NewConstant(li == ri, Uint8), true
	default:
		return nil, false
	}
}

// UnaryOp appends op operand.
func (b *Builder) UnaryOp(op UnaryOperator, operand Operand) Operand {
	if c, ok := operand.(*Constant); ok {
		if folded, ok := foldUnary(op, c); ok {
			return folded
		}
	}
	dest := b.temp(operand.Type())
	b.cur.Append(NewUnaryInst(op, dest, operand))
	return dest
}

func foldUnary(op UnaryOperator, c *Constant) (*Constant, bool) {
	switch op {
	case UnNeg:
		if v, ok := c.Value.(int64); ok {
			return NewConstant(-v, c.typ), true
		}
	case UnNot:
		if v, ok := c.Value.(bool); ok {
			return NewConstant(!v, c.typ), true
		}
	}
	return nil, false
}

// Load appends `dest = load base[offset]`, or — when base is a
// GlobalConstant holding a StructuredOperand and offset is a Constant
// index — resolves the field directly at build time (spec.md §4.4's
// second fold rule).
func (b *Builder) Load(base, offset Operand) Operand {
	if gc, ok := base.(*GlobalConstant); ok {
		if idxConst, ok := offset.(*Constant); ok {
			if structured, ok := gc.Value.(*StructuredOperand); ok {
				if idx, ok := idxConst.Value.(int64); ok && idx >= 0 && int(idx) < len(structured.Fields) {
					return structured.Fields[idx]
				}
			}
		}
	}
	dest := b.temp(Pointer)
	b.cur.Append(NewLoad(dest, base, offset))
	return dest
}

// Store appends `base[offset] = value`.
func (b *Builder) Store(base, offset, value Operand) {
	b.cur.Append(NewStore(base, offset, value))
}

// Move appends `dest = src` and returns dest.
func (b *Builder) Move(src Operand) Operand {
	dest := b.temp(src.Type())
	b.cur.Append(NewMove(dest, src))
	return dest
}

// Call appends a call to callee with args, returning the result
// operand (nil for a void callee).
func (b *Builder) Call(callee Operand, retType Type, args ...Operand) Operand {
	var dest *Variable
	if retType != Void {
		dest = b.temp(retType)
	}
	b.cur.Append(NewCall(callee, dest, args))
	if dest == nil {
		return nil
	}
	return dest
}

// Ret appends a return terminator.
func (b *Builder) Ret(value Operand) { b.cur.Append(NewRet(value)) }

// Branch appends an unconditional terminator to target.
func (b *Builder) Branch(target *Block) {
	b.cur.Append(NewBranch(target))
	Connect(b.cur, target)
}

// CondBranch appends a conditional terminator.
func (b *Builder) CondBranch(cond Operand, taken, notTaken *Block) {
	b.cur.Append(NewCondBranch(cond, taken, notTaken))
	Connect(b.cur, taken)
	Connect(b.cur, notTaken)
}
