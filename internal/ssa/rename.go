package ssa

import (
	"coolc/internal/cfg"
	"coolc/internal/ir"
)

// rename performs spec.md §4.6 step 2: a pre-order walk of the
// dominator tree, threading one version stack per variable name.
// Formal parameters start on their stack at their existing (zero)
// version, "bare uses with no prior def" per the spec.
func rename(fn *ir.Function, g *cfg.Graph) {
	stacks := make(map[string][]*ir.Variable)
	counters := make(map[string]int)

	for _, p := range fn.Params {
		stacks[p.Name] = append(stacks[p.Name], p)
	}

	tree := g.Tree()

	var walk func(b *ir.Block)
	walk = func(b *ir.Block) {
		pushed := make(map[string]int)

		for _, instr := range b.Instructions {
			if _, isPhi := instr.(*ir.Phi); !isPhi {
				for _, use := range instr.Uses() {
					v, ok := use.(*ir.Variable)
					if !ok || v == nil {
						continue
					}
					if top := topOf(stacks, v.Name); top != nil && top != v {
						instr.ReplaceOperand(v, top)
					}
				}
			}

			if def, ok := instr.Def().(*ir.Variable); ok && def != nil {
				counters[def.Name]++
				def.Version = counters[def.Name]
				stacks[def.Name] = append(stacks[def.Name], def)
				pushed[def.Name]++
			}
		}

		for _, succ := range b.Succs {
			for _, phi := range succ.Phis() {
				phi.AddPath(b, topOf(stacks, phi.Dest.Name))
			}
		}

		for _, child := range tree[b] {
			walk(child)
		}

		for name, n := range pushed {
			stacks[name] = stacks[name][:len(stacks[name])-n]
		}
	}
	walk(g.Entry)
}

func topOf(stacks map[string][]*ir.Variable, name string) *ir.Variable {
	s := stacks[name]
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}
