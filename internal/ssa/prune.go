package ssa

import "coolc/internal/ir"

// prunePhis performs spec.md §4.6 step 3: seed `alive` with every
// phi-def used by a non-phi instruction, propagate through each live
// phi's own operands, and delete every phi whose def never became
// alive.
func prunePhis(fn *ir.Function) {
	alive := make(map[*ir.Variable]bool)
	var worklist []*ir.Variable

	mark := func(v *ir.Variable) {
		if v == nil || alive[v] {
			return
		}
		alive[v] = true
		worklist = append(worklist, v)
	}

	definedByPhi := func(v *ir.Variable) (*ir.Phi, bool) {
		p, ok := v.Def.(*ir.Phi)
		return p, ok
	}

	for _, instr := range fn.Instructions() {
		if _, isPhi := instr.(*ir.Phi); isPhi {
			continue
		}
		for _, use := range instr.Uses() {
			v, ok := use.(*ir.Variable)
			if !ok || v == nil {
				continue
			}
			if _, ok := definedByPhi(v); ok {
				mark(v)
			}
		}
	}

	for len(worklist) > 0 {
		v := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		phi, _ := definedByPhi(v)
		for _, path := range phi.Paths {
			pv, ok := path.Value.(*ir.Variable)
			if !ok || pv == nil {
				continue
			}
			if _, ok := definedByPhi(pv); ok {
				mark(pv)
			}
		}
	}

	for _, b := range fn.Blocks {
		for _, phi := range b.Phis() {
			if !alive[phi.Dest] {
				b.Erase(phi)
			}
		}
	}
}
