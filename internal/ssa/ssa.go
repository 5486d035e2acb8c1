// Package ssa implements spec.md §4.6's three-phase SSA construction
// (phi insertion, renaming, pruning) over an internal/ir function,
// driven by the dominance information internal/cfg computes.
package ssa

import (
	"coolc/internal/cfg"
	"coolc/internal/ir"
)

// Construct rewrites fn into minimal SSA form in place, given its
// dominance graph g (built by cfg.Build(fn.Entry) beforehand).
func Construct(fn *ir.Function, g *cfg.Graph) {
	defs := collectDefs(fn)
	insertPhis(g, defs)
	rename(fn, g)
	prunePhis(fn)
}
