package ssa

import (
	"coolc/internal/cfg"
	"coolc/internal/ir"
)

// defSite is one source-level variable's defining blocks, keyed by
// name in the caller's map: spec.md §4.6 step 1's "for every variable
// with definitions in blocks Defs(v)". Pre-renaming, each defining
// instruction owns a distinct *ir.Variable sharing the same Name;
// phi insertion and renaming key off that Name, not pointer identity.
type defSite struct {
	typ    ir.Type
	blocks *cfg.Set[*ir.Block]
}

func collectDefs(fn *ir.Function) map[string]*defSite {
	out := make(map[string]*defSite)
	for _, instr := range fn.Instructions() {
		v, ok := instr.Def().(*ir.Variable)
		if !ok || v == nil {
			continue
		}
		ds, exists := out[v.Name]
		if !exists {
			ds = &defSite{typ: v.Type(), blocks: cfg.NewSet[*ir.Block]()}
			out[v.Name] = ds
		}
		ds.blocks.Add(instr.Block())
	}
	return out
}
