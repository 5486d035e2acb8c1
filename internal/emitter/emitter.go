// Package emitter defines the external contract spec.md §4.9
// describes for the concrete code generator: given a typed AST, a
// Klass layout, an IR module and its constant pool, produce
// machine-ready output. No concrete backend lives in this module (the
// original's LLVM and MIPS/SPIM backends are explicitly out of scope,
// per spec.md §1's "raw-code sink" framing) — only the interfaces and
// data shapes a real backend (or a test double) would implement.
package emitter

import (
	"coolc/internal/ast"
	"coolc/internal/data"
	"coolc/internal/ir"
	"coolc/internal/klass"
)

// Input bundles everything an Emitter needs: the typed program, its
// Klass layout, the lowered IR module, and the data segment the
// builder produced.
type Input struct {
	Program  *ast.Program
	Registry *klass.Registry
	Module   *ir.Module
	Segment  *data.Segment
}

// Emitter is the sink a compiler driver hands a fully built Input to.
// Implementations own whatever raw-code format they target (textual
// assembly, an object file, a bitcode module); this package makes no
// assumption about it.
type Emitter interface {
	// EmitInit emits one init function per class: header
	// construction via constructor-call chaining, trivial-type
	// defaults, then initialisers in source order (spec.md §4.9a).
	EmitInit(in *Input, k *klass.Klass) error

	// EmitMethod emits one function per method body, lowered from
	// the method's IR (spec.md §4.9b).
	EmitMethod(in *Input, k *klass.Klass, method *ir.Function) error

	// EmitEntry emits the runtime-entry function: initialise the
	// GC, construct a Main object, invoke Main.main, tear the
	// runtime down, return 0 (spec.md §4.9c).
	EmitEntry(in *Input) error

	// Finish flushes and closes whatever output the Emitter has
	// been accumulating, and must respect the GC's safepoint
	// expectations at every call site that may allocate (spec.md
	// §4.9d): shadow-stack push/pop, or emitted stack-map records.
	Finish() error
}
