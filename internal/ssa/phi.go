package ssa

import (
	"coolc/internal/cfg"
	"coolc/internal/ir"
)

// insertPhis performs spec.md §4.6 step 1: seed a worklist with each
// variable's defining blocks, and for each block x pulled off the
// worklist, insert a phi at the top of every y in DF(x) that doesn't
// already have one for that variable, adding y to the worklist (and
// to its def set) if it wasn't already a defining block.
func insertPhis(g *cfg.Graph, defs map[string]*defSite) {
	df := g.Frontier()
	for name, ds := range defs {
		hasPhi := cfg.NewSet[*ir.Block]()
		worklist := cfg.NewSet[*ir.Block]()
		for _, b := range ds.blocks.Members() {
			worklist.Add(b)
		}
		for worklist.Len() > 0 {
			ordered := cfg.SortedBy(worklist, func(b *ir.Block) int { return b.PostOrderNum })
			x := ordered[0]
			worklist.Remove(x)

			for _, y := range df[x] {
				if hasPhi.Contains(y) {
					continue
				}
				dest := ir.NewVariable(name, ds.typ)
				y.Prepend(ir.NewPhi(dest))
				hasPhi.Add(y)

				if !ds.blocks.Contains(y) {
					ds.blocks.Add(y)
					worklist.Add(y)
				}
			}
		}
	}
}
