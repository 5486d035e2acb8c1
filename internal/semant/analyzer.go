// Package semant implements the analyzer contract of spec.md §4.1:
// given a sequence of parsed programs sharing one ast.TypeTable, it
// produces either a merged, fully type-annotated *ast.Program plus
// the root *ast.ClassNode, or the first error encountered.
package semant

import (
	"github.com/google/uuid"

	"coolc/internal/ast"
	cerr "coolc/internal/errors"
)

// Result is what a successful Analyze call returns.
type Result struct {
	Program *ast.Program
	Root    *ast.ClassNode
}

// Analyzer holds the mutable state threaded through the pipeline in
// spec.md §4.1 steps 1-7.
type Analyzer struct {
	types    *ast.TypeTable
	classes  map[ast.TypeID]*ast.Class
	nodes    map[ast.TypeID]*ast.ClassNode
	root     *ast.ClassNode
	curClass *ast.Class
	scopes   []map[string]ast.TypeID
	firstErr *cerr.CoolError
}

// Analyze runs the full pipeline. types must be the single TypeTable
// every program in programs was parsed against (spec.md treats the
// frontend as an external collaborator; this module requires the
// caller to share one TypeTable across files so names merge
// correctly — see SPEC_FULL.md's internal/frontend note).
func Analyze(types *ast.TypeTable, programs ...*ast.Program) (*Result, error) {
	a := &Analyzer{
		types:   types,
		classes: make(map[ast.TypeID]*ast.Class),
		nodes:   make(map[ast.TypeID]*ast.ClassNode),
	}

	merged := &ast.Program{Types: types, BuildID: uuid.New()}
	for _, p := range programs {
		merged.Classes = append(merged.Classes, p.Classes...)
	}

	if err := a.installAndCheckClasses(merged); err != nil {
		return nil, err
	}
	if err := a.checkCycles(); err != nil {
		return nil, err
	}
	a.buildTree()
	if err := a.checkMain(); err != nil {
		return nil, err
	}
	if err := a.inferProgram(); err != nil {
		return nil, err
	}

	return &Result{Program: merged, Root: a.root}, nil
}

// installAndCheckClasses performs spec.md §4.1 steps 2-3: install
// built-ins, then register every user class, rejecting redefinitions
// of a built-in, duplicate names, and illegal inheritance, deferring
// unknown parents to a second pass.
func (a *Analyzer) installAndCheckClasses(p *ast.Program) error {
	for _, c := range installBuiltins(a.types) {
		a.classes[c.Name] = c
	}

	for _, c := range p.Classes {
		if isBuiltinName(a.types, c.Name) {
			return cerr.New(cerr.HierarchyError, c.File, c.Line,
				"Redefinition of basic class %s.", a.types.Name(c.Name))
		}
		if _, dup := a.classes[c.Name]; dup {
			return cerr.New(cerr.HierarchyError, c.File, c.Line,
				"Class %s was previously defined.", a.types.Name(c.Name))
		}
		switch c.Parent {
		case ast.IntType, ast.BoolType, ast.StringType, ast.SelfType, ast.EmptyType:
			return cerr.New(cerr.HierarchyError, c.File, c.Line,
				"Class %s cannot inherit class %s.", a.types.Name(c.Name), a.types.Name(c.Parent))
		}
		a.classes[c.Name] = c
	}

	// Second pass: every non-Object class's parent must now resolve.
	for _, c := range p.Classes {
		if c.Name == ast.ObjectType {
			continue
		}
		if _, ok := a.classes[c.Parent]; !ok {
			return cerr.New(cerr.HierarchyError, c.File, c.Line,
				"Class %s inherits from an undefined class %s.", a.types.Name(c.Name), a.types.Name(c.Parent))
		}
	}
	return nil
}

// checkCycles performs spec.md §4.1 step 4: a three-color DFS over
// every class; re-entering a gray (in-progress) class reports every
// member of that cycle with its file:line.
func (a *Analyzer) checkCycles() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[ast.TypeID]int, len(a.classes))

	var errs []*cerr.CoolError
	var visit func(id ast.TypeID, chain []ast.TypeID)
	visit = func(id ast.TypeID, chain []ast.TypeID) {
		if id == ast.ObjectType || isBuiltinName(a.types, id) {
			color[id] = black
			return
		}
		switch color[id] {
		case black:
			return
		case gray:
			// Found the back-edge; every class from id's first
			// occurrence in chain onward participates in the cycle.
			start := 0
			for i, c := range chain {
				if c == id {
					start = i
					break
				}
			}
			for _, c := range chain[start:] {
				cls := a.classes[c]
				errs = append(errs, cerr.New(cerr.HierarchyError, cls.File, cls.Line,
					"Class %s, or an ancestor of %s, is involved in an inheritance cycle.",
					a.types.Name(c), a.types.Name(c)))
			}
			return
		}
		color[id] = gray
		cls := a.classes[id]
		visit(cls.Parent, append(chain, id))
		color[id] = black
	}

	for id, cls := range a.classes {
		if isBuiltinName(a.types, id) {
			continue
		}
		if color[id] == white {
			visit(id, nil)
		}
		_ = cls
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

// buildTree links every acyclic class (checkCycles has already
// rejected cycles) into the ClassNode tree rooted at Object.
func (a *Analyzer) buildTree() {
	for id, c := range a.classes {
		a.nodes[id] = &ast.ClassNode{Class: c}
	}
	a.root = a.nodes[ast.ObjectType]
	for id, node := range a.nodes {
		if id == ast.ObjectType {
			continue
		}
		parent := a.nodes[node.Class.Parent]
		parent.AddChild(node)
	}
}

// checkMain performs spec.md §4.1 step 5.
func (a *Analyzer) checkMain() error {
	mainID, ok := a.types.Lookup("Main")
	if !ok {
		return cerr.New(cerr.HierarchyError, "", 0, "Class Main is not defined.")
	}
	main, ok := a.classes[mainID]
	if !ok {
		return cerr.New(cerr.HierarchyError, "", 0, "Class Main is not defined.")
	}
	for _, f := range main.Features {
		if m, ok := f.(*ast.MethodFeature); ok && m.Name == "main" && len(m.Formals) == 0 {
			return nil
		}
	}
	return cerr.New(cerr.HierarchyError, main.File, main.Line, "No 'main' method in class Main.")
}

// cycleError renders multiple hierarchy-cycle diagnostics as a single
// multi-line error, the one exception to "first error wins" that
// spec.md §7 calls out explicitly ("except for the cycle check which
// reports every class in each cycle").
type cycleError struct {
	errs []*cerr.CoolError
}

func (e *cycleError) Error() string {
	msg := ""
	for i, c := range e.errs {
		if i > 0 {
			msg += "\n"
		}
		msg += c.Error()
	}
	return msg
}

func joinErrors(errs []*cerr.CoolError) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return &cycleError{errs: errs}
}
