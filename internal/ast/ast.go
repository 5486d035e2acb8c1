package ast

import "github.com/google/uuid"

// Program is the merged, ordered list of classes produced by
// spec.md §4.1 step 1 (Merge). BuildID is a fresh uuid that
// semant.Analyze mints for each merged program; it is not copied into
// diagnostics, IR modules or GC statistics.
type Program struct {
	Classes []*Class
	Line    int
	Types   *TypeTable
	BuildID uuid.UUID
}

// Class is one `class C [inherits P] { ... }` declaration.
type Class struct {
	Name     TypeID
	Parent   TypeID
	File     string
	Line     int
	Features []Feature

	// MaxStackDepth is the maximum number of shadow-stack root slots
	// this class's attribute initializers need, computed per
	// spec.md §4.1 step 7.
	MaxStackDepth int
}

// Feature is either an AttrFeature or a MethodFeature.
type Feature interface {
	FeatureName() string
	featureNode()
}

// AttrFeature declares one object field, with an optional initializer.
type AttrFeature struct {
	Name    string
	Decl    TypeID
	Init    Expression // nil if uninitialized
	LineNum int
}

func (a *AttrFeature) FeatureName() string { return a.Name }
func (a *AttrFeature) featureNode()        {}

// MethodFeature declares one method.
type MethodFeature struct {
	Name    string
	Formals []Formal
	Ret     TypeID
	Body    Expression

	// StackDepth is the maximum number of shadow-stack root slots
	// this method's body needs (spec.md §4.1 step 7).
	StackDepth int
	LineNum    int
}

func (m *MethodFeature) FeatureName() string { return m.Name }
func (m *MethodFeature) featureNode()        {}

// Formal is one method parameter.
type Formal struct {
	Name string
	Decl TypeID
}
