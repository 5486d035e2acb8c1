package main

import (
	"fmt"

	"coolc/internal/ast"
	"coolc/internal/data"
	"coolc/internal/emitter"
	"coolc/internal/frontend"
	"coolc/internal/klass"
	"coolc/internal/semant"
)

// Registry supplies the external collaborators this module treats as
// interfaces only: a ProgramSource per input file, and an Emitter for
// the final backend step. No concrete implementation ships in this
// module (spec.md §1's scope boundary); a real toolchain or a test
// wires these in.
type Registry struct {
	NewSource  func(path string, types *ast.TypeTable) (frontend.ProgramSource, error)
	NewEmitter func() emitter.Emitter
}

// CompileResult is everything a successful Compile call produced,
// ready to hand to an Emitter.
type CompileResult struct {
	Program  *ast.Program
	Registry *klass.Registry
	Segment  *data.Segment
}

// Compile runs the in-scope pipeline end to end: parse every file
// (via reg.NewSource), merge and type-check (internal/semant), build
// the Klass layout (internal/klass), build the data segment
// (internal/data), then hand off to reg.NewEmitter if one was
// supplied. Ordering matches spec.md §5: parsing precedes semantic
// analysis, which precedes everything else.
func Compile(files []string, opts options, reg Registry) (*CompileResult, error) {
	if reg.NewSource == nil {
		return nil, fmt.Errorf("coolc: no frontend registered (internal/frontend is an external contract; wire a ProgramSource)")
	}

	types := ast.NewTypeTable()
	var programs []*ast.Program
	for _, path := range files {
		source, err := reg.NewSource(path, types)
		if err != nil {
			return nil, err
		}
		program, err := source.Parse()
		if err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}

	result, err := semant.Analyze(types, programs...)
	if err != nil {
		return nil, err
	}

	registry := klass.Build(result.Root, types)
	segment := data.NewBuilder(registry, types).Build()

	cr := &CompileResult{Program: result.Program, Registry: registry, Segment: segment}

	if reg.NewEmitter != nil {
		em := reg.NewEmitter()
		in := &emitter.Input{Program: cr.Program, Registry: cr.Registry, Segment: cr.Segment}
		for _, k := range registry.ByTag {
			if k == nil {
				continue
			}
			if err := em.EmitInit(in, k); err != nil {
				return cr, err
			}
		}
		if err := em.EmitEntry(in); err != nil {
			return cr, err
		}
		if err := em.Finish(); err != nil {
			return cr, err
		}
	}

	return cr, nil
}
