// Package ast is the immutable-tree AST model for Cool programs:
// classes, features, and a sum-of-variants expression tree (spec.md
// §3). Expression nodes are plain Go structs dispatched through a
// visitor, the same shape the teacher's internal/parser package used
// for its own expression tree (Expr interface + Accept(visitor)).
//
// Per spec.md §9's design note on cyclic AST pointers, types are
// never held by name string comparisons scattered through the tree:
// every site that would hold a name or a parent pointer instead holds
// a TypeID, interned once into a shared TypeTable.
package ast

import "fmt"

// TypeID is an interned reference into a TypeTable. The zero value
// denotes "no type yet" (pre-analysis).
type TypeID int

const NoType TypeID = 0

// Well-known builtin type IDs. These are stable across every
// TypeTable because NewTypeTable interns them first, in this order.
const (
	ObjectType TypeID = iota + 1
	IOType
	IntType
	BoolType
	StringType
	SelfType     // SELF_TYPE: synthetic, substituted during analysis
	EmptyType    // _EMPTY_TYPE: Object's synthetic parent sentinel
	firstUserType
)

var builtinNames = [...]string{
	ObjectType: "Object",
	IOType:     "IO",
	IntType:    "Int",
	BoolType:   "Bool",
	StringType: "String",
	SelfType:   "SELF_TYPE",
	EmptyType:  "_EMPTY_TYPE",
}

// TypeTable interns class names to TypeIDs. One TypeTable is shared by
// an entire compilation (an ast.Program and every Klass/IR built from
// it reference the same table).
type TypeTable struct {
	names []string
	ids   map[string]TypeID
}

// NewTypeTable creates a table pre-populated with the builtins in
// spec.md §4.1 step 2, so their TypeIDs are stable constants above.
func NewTypeTable() *TypeTable {
	t := &TypeTable{
		names: make([]string, firstUserType),
		ids:   make(map[string]TypeID, 32),
	}
	for id, name := range builtinNames {
		if name == "" {
			continue
		}
		t.names[id] = name
		t.ids[name] = TypeID(id)
	}
	return t
}

// Intern returns the TypeID for name, allocating a new one if this is
// the first time name has been seen.
func (t *TypeTable) Intern(name string) TypeID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := TypeID(len(t.names))
	t.names = append(t.names, name)
	t.ids[name] = id
	return id
}

// Lookup returns the TypeID for name without interning it, reporting
// whether it already exists.
func (t *TypeTable) Lookup(name string) (TypeID, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the source-level name for id.
func (t *TypeTable) Name(id TypeID) string {
	if int(id) < 0 || int(id) >= len(t.names) {
		return fmt.Sprintf("<invalid type %d>", id)
	}
	return t.names[id]
}

// IsBuiltin reports whether id names one of Object/IO/Int/Bool/String.
func (t *TypeTable) IsBuiltin(id TypeID) bool {
	switch id {
	case ObjectType, IOType, IntType, BoolType, StringType:
		return true
	default:
		return false
	}
}
