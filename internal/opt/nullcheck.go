package opt

import (
	"coolc/internal/cfg"
	"coolc/internal/ir"
)

// NullCheckElimination is spec.md §4.7's pattern-matching pass: for
// an `isvoid` test on a value known to be non-null on every path — a
// freshly allocated object, or a receiver already guarded by a
// dominating `isvoid` check on the same variable — it replaces every
// use of the test's result with the constant false. The `isvoid`
// instruction itself is left in the block.
type NullCheckElimination struct{}

func (NullCheckElimination) Name() string { return "null-check elimination" }

func (NullCheckElimination) Description() string {
	return "replaces uses of an isvoid test proven false by a fresh allocation or a dominating prior check with false"
}

func (NullCheckElimination) Apply(fn *ir.Function) bool {
	if fn.Entry == nil {
		return false
	}
	g := cfg.Build(fn.Entry)
	nonNull := allocatedNonNull(fn)
	guards := collectGuards(fn)

	changed := false
	for _, instr := range fn.Instructions() {
		un, ok := instr.(*ir.UnaryInst)
		if !ok || un.Op != ir.UnIsVoid {
			continue
		}
		x, ok := un.Operand.(*ir.Variable)
		if !ok || x == nil {
			continue
		}
		if !nonNull[x] && !provenByGuard(g, guards, un.Block(), x) {
			continue
		}
		falseConst := ir.NewConstant(false, ir.Uint8)
		for _, user := range un.Dest.Uses() {
			if user.ReplaceOperand(un.Dest, falseConst) {
				changed = true
			}
		}
	}
	return changed
}

// allocatedNonNull returns every variable defined directly by a fresh
// allocation call: by SSA's dominance property, any use of it is
// already dominated by that definition, so it is unconditionally
// non-null wherever it can be observed.
func allocatedNonNull(fn *ir.Function) map[*ir.Variable]bool {
	out := make(map[*ir.Variable]bool)
	for _, instr := range fn.Instructions() {
		call, ok := instr.(*ir.Call)
		if !ok || call.Dest == nil || !isAllocCall(call) {
			continue
		}
		out[call.Dest] = true
	}
	return out
}

// guard records one `isvoid` test whose not-taken (non-null) edge
// leads to notTaken.
type guard struct {
	variable *ir.Variable
	notTaken *ir.Block
}

func collectGuards(fn *ir.Function) []guard {
	var out []guard
	for _, b := range fn.Blocks {
		cb, ok := b.Terminator().(*ir.CondBranch)
		if !ok {
			continue
		}
		condVar, ok := cb.Cond.(*ir.Variable)
		if !ok || condVar == nil {
			continue
		}
		un, ok := condVar.Def.(*ir.UnaryInst)
		if !ok || un.Op != ir.UnIsVoid {
			continue
		}
		x, ok := un.Operand.(*ir.Variable)
		if !ok || x == nil {
			continue
		}
		out = append(out, guard{variable: x, notTaken: cb.NotTaken})
	}
	return out
}

// provenByGuard reports whether some guard on x dominates block —
// i.e. block is only reachable having already taken that guard's
// non-null edge.
func provenByGuard(g *cfg.Graph, guards []guard, block *ir.Block, x *ir.Variable) bool {
	for _, gd := range guards {
		if gd.variable == x && g.Dominates(gd.notTaken, block) {
			return true
		}
	}
	return false
}
