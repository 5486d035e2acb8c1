// Package data builds the static data segment spec.md §4.3 describes:
// the class-name table, class-object table, per-class prototypes and
// dispatch tables, and deduplicated constant pools, all expressed as
// internal/ir globals so the (external) emitter sees ordinary IR
// operands rather than a bespoke serialization format.
package data

import (
	"coolc/internal/ast"
	"coolc/internal/ir"
	"coolc/internal/klass"
	"coolc/internal/runtimeobj"
)

// Segment is the complete ordered set of globals the data builder
// produced, in the emission order spec.md §4.3 requires.
type Segment struct {
	ClassNameTable   *ir.GlobalConstant
	ClassObjectTable *ir.GlobalConstant
	Prototypes       []*ir.GlobalConstant
	DispatchTables   []*ir.GlobalConstant
	Pool             *Pool
}

// Builder assembles a Segment from a fully laid-out Registry.
type Builder struct {
	Registry *klass.Registry
	Types    *ast.TypeTable
	Pool     *Pool
}

func NewBuilder(reg *klass.Registry, types *ast.TypeTable) *Builder {
	return &Builder{Registry: reg, Types: types, Pool: NewPool()}
}

// Build emits, in order: the class-name table, the class-object
// table, every class's prototype, every class's dispatch table, and
// finally hands back the constant pool built up along the way.
func (b *Builder) Build() *Segment {
	seg := &Segment{Pool: b.Pool}
	seg.ClassNameTable = b.buildClassNameTable()
	seg.ClassObjectTable = b.buildClassObjectTable()
	for _, k := range b.Registry.ByTag {
		if k == nil {
			continue
		}
		seg.Prototypes = append(seg.Prototypes, b.buildPrototype(k))
		seg.DispatchTables = append(seg.DispatchTables, b.buildDispatchTable(k))
	}
	return seg
}

func (b *Builder) buildClassNameTable() *ir.GlobalConstant {
	var fields []ir.Operand
	var names []string
	for _, k := range b.Registry.ByTag {
		if k == nil {
			fields = append(fields, ir.NewConstant(nil, ir.Pointer))
			names = append(names, "_")
			continue
		}
		entry := b.Pool.InternString(b.Types.Name(k.Name))
		fields = append(fields, entry)
		names = append(names, b.Types.Name(k.Name))
	}
	s := ir.NewStructuredOperand(names, fields)
	return ir.NewGlobalConstant("class_nameTab", s)
}

func (b *Builder) buildClassObjectTable() *ir.GlobalConstant {
	var fields []ir.Operand
	var names []string
	for _, k := range b.Registry.ByTag {
		if k == nil {
			fields = append(fields, ir.NewConstant(nil, ir.Pointer))
			fields = append(fields, ir.NewConstant(nil, ir.Pointer))
			names = append(names, "_proto", "_init")
			continue
		}
		fields = append(fields,
			ir.NewGlobalVariable(k.PrototypeLabel(), ir.Pointer),
			ir.NewGlobalVariable(k.InitLabel(), ir.Pointer),
		)
		names = append(names, k.PrototypeLabel(), k.InitLabel())
	}
	s := ir.NewStructuredOperand(names, fields)
	return ir.NewGlobalConstant("class_objTab", s)
}

// buildPrototype emits tag, size-in-words (the runtime header's
// runtimeobj.HeaderWords plus one word per field), dispatch-table
// pointer, then one zero/default-initialised field per
// declared+inherited field, per spec.md §4.3.
func (b *Builder) buildPrototype(k *klass.Klass) *ir.GlobalConstant {
	names := []string{"tag", "size", "dispatch_table"}
	fields := []ir.Operand{
		ir.NewConstant(int64(k.Tag), ir.Int32),
		ir.NewConstant(int64(runtimeobj.HeaderWords+len(k.Fields)), ir.Int32),
		ir.NewGlobalVariable(k.DispatchTableLabel(), ir.Pointer),
	}
	for _, f := range k.Fields {
		names = append(names, f.Name)
		fields = append(fields, defaultValue(b.Types, f.Decl))
	}
	s := ir.NewStructuredOperand(names, fields)
	return ir.NewGlobalConstant(k.PrototypeLabel(), s)
}

// buildDispatchTable emits one function-pointer field per method
// slot, in dispatch-table (method-index) order.
func (b *Builder) buildDispatchTable(k *klass.Klass) *ir.GlobalConstant {
	var names []string
	var fields []ir.Operand
	for _, m := range k.Methods {
		definer := b.Registry.Lookup(m.DefiningClass)
		label := m.Name
		if definer != nil {
			label = definer.MethodLabel(m.Name)
		}
		names = append(names, m.Name)
		fields = append(fields, ir.NewGlobalVariable(label, ir.Pointer))
	}
	s := ir.NewStructuredOperand(names, fields)
	return ir.NewGlobalConstant(k.DispatchTableLabel(), s)
}

// defaultValue returns the zero-initialised value a fresh prototype
// field holds before any user init-expression runs: 0 for Int, false
// for Bool, the empty string for String, a null pointer otherwise.
func defaultValue(types *ast.TypeTable, id ast.TypeID) ir.Operand {
	switch types.Name(id) {
	case "Int":
		return ir.NewConstant(int64(0), ir.Int64)
	case "Bool":
		return ir.NewConstant(false, ir.Uint8)
	case "String":
		return ir.NewConstant("", ir.Pointer)
	default:
		return ir.NewConstant(nil, ir.Pointer)
	}
}
