package opt

import (
	"strings"

	"coolc/internal/ir"
)

// AllocRuntimeSymbol is the callee name the boxed-allocation runtime
// entry point is lowered to; dead-allocation elimination recognises a
// Call to it as spec.md §4.7's "allocation".
const AllocRuntimeSymbol = "rt_allocate"

// DeadAllocationElimination is spec.md §4.7's boxed-Int-specific
// pass: an allocation is eliminable when its result is used by
// exactly one Store (the payload write) and one Call to the class's
// init method, and nothing else observes it — in which case the
// whole chain (allocation, store, init call) is erased.
type DeadAllocationElimination struct{}

func (DeadAllocationElimination) Name() string { return "dead allocation elimination" }

func (DeadAllocationElimination) Description() string {
	return "erases a boxed allocation whose result is written once and passed to init, with no surviving reader"
}

func (DeadAllocationElimination) Apply(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		for {
			erased := false
			for _, instr := range b.Instructions {
				call, ok := instr.(*ir.Call)
				if !ok || call.Dest == nil || !isAllocCall(call) {
					continue
				}
				store, init, ok := soleAllocUsers(call.Dest)
				if !ok {
					continue
				}
				store.Block().Erase(store)
				init.Block().Erase(init)
				b.Erase(call)
				changed = true
				erased = true
				break
			}
			if !erased {
				break
			}
		}
	}
	return changed
}

func isAllocCall(call *ir.Call) bool {
	return call.Callee != nil && call.Callee.String() == "@"+AllocRuntimeSymbol
}

func isInitCall(call *ir.Call) bool {
	return call.Callee != nil && strings.HasSuffix(call.Callee.String(), "_init")
}

// soleAllocUsers reports whether dest's only users are exactly one
// Store (using dest as the base) and exactly one Call to a class init
// method, and returns them.
func soleAllocUsers(dest *ir.Variable) (*ir.Store, *ir.Call, bool) {
	uses := dest.Uses()
	if len(uses) != 2 {
		return nil, nil, false
	}
	var store *ir.Store
	var init *ir.Call
	for _, u := range uses {
		switch in := u.(type) {
		case *ir.Store:
			if store != nil || in.Base != ir.Operand(dest) {
				return nil, nil, false
			}
			store = in
		case *ir.Call:
			if init != nil || !isInitCall(in) {
				return nil, nil, false
			}
			init = in
		default:
			return nil, nil, false
		}
	}
	if store == nil || init == nil {
		return nil, nil, false
	}
	return store, init, true
}
