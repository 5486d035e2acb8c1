package opt

import "coolc/internal/ir"

// CopyPropagation is spec.md §4.7's sparse copy-propagation pass: a
// worklist seeded with the entry block computes, for every defined
// variable, a "copy representative" — the common copy of a phi's
// live-in operands, the source of a Move, or itself for any other
// defining instruction — then compresses chains and rewrites every
// use of a dead copy to its representative.
type CopyPropagation struct{}

func (CopyPropagation) Name() string { return "copy propagation" }

func (CopyPropagation) Description() string {
	return "rewrites uses of a copy (Move or agreeing phi) to its underlying representative"
}

func (CopyPropagation) Apply(fn *ir.Function) bool {
	if fn.Entry == nil {
		return false
	}

	rep := make(map[*ir.Variable]ir.Operand)
	for _, p := range fn.Params {
		rep[p] = p
	}

	visited := make(map[*ir.Block]bool)
	worklist := []*ir.Block{fn.Entry}
	for len(worklist) > 0 {
		b := worklist[0]
		worklist = worklist[1:]
		if visited[b] {
			continue
		}
		visited[b] = true

		for _, instr := range b.Instructions {
			switch in := instr.(type) {
			case *ir.Phi:
				rep[in.Dest] = phiRepresentative(rep, in)
			case *ir.Move:
				rep[in.Dest] = resolve(rep, in.Src)
			default:
				if v, ok := instr.Def().(*ir.Variable); ok && v != nil {
					rep[v] = v
				}
			}
		}
		worklist = append(worklist, b.Succs...)
	}

	// Compress chains: rep = rep[rep], transitively.
	for v := range rep {
		rep[v] = finalRepresentative(rep, v)
	}

	changed := false
	for _, instr := range fn.Instructions() {
		for _, use := range instr.Uses() {
			v, ok := use.(*ir.Variable)
			if !ok || v == nil {
				continue
			}
			if r, ok := rep[v]; ok && r != ir.Operand(v) {
				if instr.ReplaceOperand(v, r) {
					changed = true
				}
			}
		}
	}
	return changed
}

// phiRepresentative is the common copy of in's live-in operands, or
// in.Dest itself when they disagree (the phi genuinely merges
// distinct values).
func phiRepresentative(rep map[*ir.Variable]ir.Operand, in *ir.Phi) ir.Operand {
	var common ir.Operand
	for _, path := range in.Paths {
		v := resolve(rep, path.Value)
		if common == nil {
			common = v
		} else if common != v {
			return in.Dest
		}
	}
	if common == nil {
		return in.Dest
	}
	return common
}

// finalRepresentative follows v's rep chain to its end, guarding
// against a cycle (which a correct SSA program never produces, but a
// malformed one shouldn't hang the compiler over).
func finalRepresentative(rep map[*ir.Variable]ir.Operand, v *ir.Variable) ir.Operand {
	seen := make(map[*ir.Variable]bool)
	cur := ir.Operand(v)
	for {
		cv, ok := cur.(*ir.Variable)
		if !ok || cv == nil || seen[cv] {
			return cur
		}
		seen[cv] = true
		next, ok := rep[cv]
		if !ok || next == cur {
			return cur
		}
		cur = next
	}
}

func resolve(rep map[*ir.Variable]ir.Operand, op ir.Operand) ir.Operand {
	v, ok := op.(*ir.Variable)
	if !ok || v == nil {
		return op
	}
	r, ok := rep[v]
	if !ok {
		return op
	}
	return r
}
