// Package opt implements spec.md §4.7's scalar optimisation passes —
// copy propagation, dead-allocation elimination, and null-check
// elimination — run over SSA-form internal/ir functions. The
// Pass/Pipeline shape follows the pack's own optimisation pipeline
// (kanso-lang's internal/ir.OptimizationPass/OptimizationPipeline),
// adapted to this module's instruction set and dominance utilities.
package opt

import "coolc/internal/ir"

// Pass is one optimisation transformation over a single function.
type Pass interface {
	Name() string
	Description() string
	Apply(fn *ir.Function) bool
}

// Result records whether one pass changed a function, for diagnostics.
type Result struct {
	Pass    string
	Changed bool
}

// Pipeline runs a fixed sequence of passes.
type Pipeline struct {
	passes []Pass
}

// Default returns the pipeline spec.md §4.7 names: copy propagation,
// dead-allocation elimination, null-check elimination, in that order
// (copy propagation first so the later passes see compressed chains).
func Default() *Pipeline {
	p := &Pipeline{}
	p.Add(&CopyPropagation{})
	p.Add(&DeadAllocationElimination{})
	p.Add(&NullCheckElimination{})
	return p
}

// Add appends a pass to the pipeline.
func (p *Pipeline) Add(pass Pass) { p.passes = append(p.passes, pass) }

// Run applies every pass once, in order, to fn and reports what changed.
func (p *Pipeline) Run(fn *ir.Function) []Result {
	results := make([]Result, 0, len(p.passes))
	for _, pass := range p.passes {
		results = append(results, Result{Pass: pass.Name(), Changed: pass.Apply(fn)})
	}
	return results
}
