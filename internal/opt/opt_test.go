package opt

import (
	"testing"

	"coolc/internal/ir"
)

func newFn() (*ir.Function, *ir.Block) {
	fn := ir.NewFunction("f", nil, ir.Int64)
	fn.Entry = fn.NewBlock("entry")
	return fn, fn.Entry
}

func TestCopyPropagationCompressesMoveChain(t *testing.T) {
	fn, entry := newFn()

	a := ir.NewVariable("a", ir.Int64)
	entry.Append(ir.NewMove(a, ir.NewConstant(int64(5), ir.Int64)))

	b := ir.NewVariable("b", ir.Int64)
	entry.Append(ir.NewMove(b, a))

	c := ir.NewVariable("c", ir.Int64)
	bin := ir.NewBinaryInst(ir.BinAdd, c, b, ir.NewConstant(int64(1), ir.Int64))
	entry.Append(bin)
	entry.Append(ir.NewRet(c))

	changed := (&CopyPropagation{}).Apply(fn)
	if !changed {
		t.Fatalf("expected copy propagation to report a change")
	}

	got, ok := bin.LHS.(*ir.Constant)
	if !ok {
		t.Fatalf("bin.LHS = %T, want *ir.Constant (compressed through b and a)", bin.LHS)
	}
	if got.Value.(int64) != 5 {
		t.Fatalf("bin.LHS value = %v, want 5", got.Value)
	}
}

func buildAllocChain(b *ir.Block) (*ir.Call, *ir.Store, *ir.Call) {
	allocFn := ir.NewFunction(AllocRuntimeSymbol, nil, ir.Pointer)
	dest := ir.NewVariable("obj", ir.Pointer)
	call := ir.NewCall(allocFn, dest, nil)
	b.Append(call)

	store := ir.NewStore(dest, ir.NewConstant(int64(0), ir.Int64), ir.NewConstant(int64(42), ir.Int64))
	b.Append(store)

	initFn := ir.NewFunction("Int_init", nil, ir.Void)
	initCall := ir.NewCall(initFn, nil, []ir.Operand{dest})
	b.Append(initCall)

	return call, store, initCall
}

func TestDeadAllocationEliminationErasesUnobservedChain(t *testing.T) {
	fn, entry := newFn()
	buildAllocChain(entry)
	entry.Append(ir.NewRet(nil))

	changed := (&DeadAllocationElimination{}).Apply(fn)
	if !changed {
		t.Fatalf("expected dead allocation elimination to report a change")
	}
	if len(entry.Instructions) != 1 {
		t.Fatalf("len(entry.Instructions) = %d, want 1 (only the Ret survives)", len(entry.Instructions))
	}
	if _, ok := entry.Instructions[0].(*ir.Ret); !ok {
		t.Fatalf("surviving instruction = %T, want *ir.Ret", entry.Instructions[0])
	}
}

func TestDeadAllocationEliminationSkipsObservedAllocation(t *testing.T) {
	fn, entry := newFn()
	call, _, _ := buildAllocChain(entry)
	// A third use (an escaping read) disqualifies the allocation.
	other := ir.NewVariable("r", ir.Pointer)
	entry.Append(ir.NewMove(other, call.Dest))
	entry.Append(ir.NewRet(nil))

	before := len(entry.Instructions)
	changed := (&DeadAllocationElimination{}).Apply(fn)
	if changed {
		t.Fatalf("expected no change when the allocation escapes")
	}
	if len(entry.Instructions) != before {
		t.Fatalf("instructions were erased despite an escaping use")
	}
}

func TestNullCheckEliminationFoldsCheckOnFreshAllocation(t *testing.T) {
	fn, entry := newFn()
	allocFn := ir.NewFunction(AllocRuntimeSymbol, nil, ir.Pointer)
	dest := ir.NewVariable("obj", ir.Pointer)
	entry.Append(ir.NewCall(allocFn, dest, nil))

	isVoidDest := ir.NewVariable("isnull", ir.Uint8)
	un := ir.NewUnaryInst(ir.UnIsVoid, isVoidDest, dest)
	entry.Append(un)

	r := ir.NewVariable("r", ir.Uint8)
	consumer := ir.NewMove(r, isVoidDest)
	entry.Append(consumer)
	entry.Append(ir.NewRet(r))

	changed := (&NullCheckElimination{}).Apply(fn)
	if !changed {
		t.Fatalf("expected null-check elimination to report a change")
	}

	c, ok := consumer.Src.(*ir.Constant)
	if !ok {
		t.Fatalf("consumer.Src = %T, want *ir.Constant", consumer.Src)
	}
	if c.Value.(bool) != false {
		t.Fatalf("folded isvoid value = %v, want false", c.Value)
	}
}

func TestNullCheckEliminationProvenByDominatingGuard(t *testing.T) {
	fn := ir.NewFunction("f", []*ir.Variable{ir.NewVariable("recv", ir.Pointer)}, ir.Int64)
	recv := fn.Params[0]
	entry := fn.NewBlock("entry")
	abortBlock := fn.NewBlock("abort")
	guarded := fn.NewBlock("guarded")
	fn.Entry = entry

	checkDest := ir.NewVariable("chk", ir.Uint8)
	entry.Append(ir.NewUnaryInst(ir.UnIsVoid, checkDest, recv))
	entry.Append(ir.NewCondBranch(checkDest, abortBlock, guarded))
	ir.Connect(entry, abortBlock)
	ir.Connect(entry, guarded)

	recheckDest := ir.NewVariable("chk2", ir.Uint8)
	un2 := ir.NewUnaryInst(ir.UnIsVoid, recheckDest, recv)
	guarded.Append(un2)
	r := ir.NewVariable("r", ir.Uint8)
	consumer := ir.NewMove(r, recheckDest)
	guarded.Append(consumer)
	guarded.Append(ir.NewRet(r))

	abortBlock.Append(ir.NewRet(nil))

	changed := (&NullCheckElimination{}).Apply(fn)
	if !changed {
		t.Fatalf("expected the dominated re-check to fold")
	}
	c, ok := consumer.Src.(*ir.Constant)
	if !ok {
		t.Fatalf("consumer.Src = %T, want *ir.Constant", consumer.Src)
	}
	if c.Value.(bool) != false {
		t.Fatalf("folded isvoid value = %v, want false", c.Value)
	}
}

func TestPipelineDefaultRunsAllThreePasses(t *testing.T) {
	fn, entry := newFn()
	buildAllocChain(entry)
	entry.Append(ir.NewRet(nil))

	results := Default().Run(fn)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
}
