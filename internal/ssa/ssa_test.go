package ssa

import (
	"testing"

	"coolc/internal/cfg"
	"coolc/internal/ir"
)

// diamondWithX builds entry -> {left, right} -> merge, where left and
// right each define a distinct pre-SSA instance of a variable named
// "x" (spec.md §4.6's Defs(v) grouping is by name, not pointer
// identity). If useX is true, merge reads x via a Move into "out".
func diamondWithX(useX bool) (fn *ir.Function, merge *ir.Block) {
	cond := ir.NewVariable("c", ir.Uint8)
	fn = ir.NewFunction("f", []*ir.Variable{cond}, ir.Int64)
	entry := fn.NewBlock("entry")
	left := fn.NewBlock("left")
	right := fn.NewBlock("right")
	merge = fn.NewBlock("merge")
	fn.Entry = entry

	entry.Append(ir.NewCondBranch(cond, left, right))
	ir.Connect(entry, left)
	ir.Connect(entry, right)

	xLeft := ir.NewVariable("x", ir.Int64)
	left.Append(ir.NewMove(xLeft, ir.NewConstant(int64(1), ir.Int64)))
	left.Append(ir.NewBranch(merge))
	ir.Connect(left, merge)

	xRight := ir.NewVariable("x", ir.Int64)
	right.Append(ir.NewMove(xRight, ir.NewConstant(int64(2), ir.Int64)))
	right.Append(ir.NewBranch(merge))
	ir.Connect(right, merge)

	if useX {
		placeholder := ir.NewVariable("x", ir.Int64)
		out := ir.NewVariable("out", ir.Int64)
		merge.Append(ir.NewMove(out, placeholder))
		merge.Append(ir.NewRet(out))
	} else {
		merge.Append(ir.NewRet(nil))
	}
	return fn, merge
}

func TestConstructInsertsAndWiresPhiAtMerge(t *testing.T) {
	fn, merge := diamondWithX(true)
	g := cfg.Build(fn.Entry)
	Construct(fn, g)

	phis := merge.Phis()
	if len(phis) != 1 {
		t.Fatalf("len(merge.Phis()) = %d, want 1", len(phis))
	}
	phi := phis[0]
	if phi.Dest.Name != "x" {
		t.Fatalf("phi.Dest.Name = %q, want %q", phi.Dest.Name, "x")
	}
	if len(phi.Paths) != 2 {
		t.Fatalf("len(phi.Paths) = %d, want 2", len(phi.Paths))
	}

	move := merge.Instructions[len(merge.Instructions)-2].(*ir.Move)
	if move.Src != ir.Operand(phi.Dest) {
		t.Fatalf("merge's Move.Src = %v, want the phi's Dest", move.Src)
	}
}

func TestPhiPathsCarryDistinctVersionsFromEachPredecessor(t *testing.T) {
	fn, merge := diamondWithX(true)
	g := cfg.Build(fn.Entry)
	Construct(fn, g)

	phi := merge.Phis()[0]
	if phi.Paths[0].Value == phi.Paths[1].Value {
		t.Fatalf("both phi paths carry the same value %v, want distinct per-predecessor versions", phi.Paths[0].Value)
	}
	for _, p := range phi.Paths {
		v, ok := p.Value.(*ir.Variable)
		if !ok {
			t.Fatalf("phi path value = %T, want *ir.Variable", p.Value)
		}
		if v.Version == 0 {
			t.Fatalf("phi path value %s was not renamed to a nonzero SSA version", v)
		}
	}
}

func TestPruneRemovesUnusedPhi(t *testing.T) {
	fn, merge := diamondWithX(false)
	g := cfg.Build(fn.Entry)
	Construct(fn, g)

	if len(merge.Phis()) != 0 {
		t.Fatalf("len(merge.Phis()) = %d, want 0 (unused phi should be pruned)", len(merge.Phis()))
	}
}

func TestRenameGivesParamsTheirDeclaredVersion(t *testing.T) {
	fn, _ := diamondWithX(true)
	g := cfg.Build(fn.Entry)
	Construct(fn, g)

	cond := fn.Params[0]
	condBranch := fn.Entry.Terminator().(*ir.CondBranch)
	if condBranch.Cond != ir.Operand(cond) {
		t.Fatalf("CondBranch.Cond = %v, want the untouched parameter %v", condBranch.Cond, cond)
	}
	if cond.Version != 0 {
		t.Fatalf("param Version = %d, want 0 (params are never renamed)", cond.Version)
	}
}
