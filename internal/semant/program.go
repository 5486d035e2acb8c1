package semant

import (
	"coolc/internal/ast"
	cerr "coolc/internal/errors"
)

// inferProgram performs spec.md §4.1 step 6 (type inference) and step 7
// (shadow-stack slot budgeting) over every user-visible class in
// pre-order, so that overriding checks always see an already-checked
// parent.
func (a *Analyzer) inferProgram() error {
	a.root.Walk(func(node *ast.ClassNode) {
		if a.firstErr != nil || isBuiltinName(a.types, node.Class.Name) {
			return
		}
		a.checkClass(node.Class)
	})
	if a.firstErr != nil {
		return a.firstErr
	}
	return nil
}

// checkClass type-checks every feature of c: attribute initializers
// conform to their declared type, method bodies conform to their
// declared return type, and an overriding method's formal count,
// formal types and return type match its nearest ancestor definition
// exactly.
func (a *Analyzer) checkClass(c *ast.Class) {
	a.curClass = c
	a.scopes = nil
	a.pushScope()
	a.bind("self", ast.SelfType)

	chain := a.ancestors(c.Name)
	for i := len(chain) - 1; i >= 0; i-- {
		anc, ok := a.classes[chain[i]]
		if !ok {
			continue
		}
		for _, f := range anc.Features {
			if attr, ok := f.(*ast.AttrFeature); ok {
				a.bind(attr.Name, attr.Decl)
			}
		}
	}

	for _, f := range c.Features {
		switch ft := f.(type) {
		case *ast.AttrFeature:
			a.checkAttr(c, ft)
		case *ast.MethodFeature:
			a.checkMethod(c, ft)
		}
		if a.firstErr != nil {
			a.popScope()
			return
		}
	}
	a.popScope()
}

func (a *Analyzer) checkAttr(c *ast.Class, ft *ast.AttrFeature) {
	if ft.Name == "self" {
		a.firstErr = cerr.New(cerr.TypeError, c.File, ft.LineNum, "'self' cannot be the name of an attribute.")
		return
	}
	if ft.Init == nil {
		return
	}
	initType, slots := a.infer(ft.Init)
	if a.firstErr != nil {
		return
	}
	if !a.conformsTo(initType, ft.Decl) {
		a.firstErr = cerr.New(cerr.TypeError, c.File, ft.LineNum,
			"Inferred type %s of initialization of attribute %s does not conform to declared type %s.",
			a.types.Name(initType), ft.Name, a.types.Name(ft.Decl))
		return
	}
	c.MaxStackDepth = max(c.MaxStackDepth, slots)
}

func (a *Analyzer) checkMethod(c *ast.Class, ft *ast.MethodFeature) {
	if overridden := a.findInherited(c.Parent, ft.Name); overridden != nil {
		if len(overridden.Formals) != len(ft.Formals) {
			a.firstErr = cerr.New(cerr.TypeError, c.File, ft.LineNum,
				"Incompatible number of formal parameters in redefined method %s.", ft.Name)
			return
		}
		for i, of := range overridden.Formals {
			if of.Decl != ft.Formals[i].Decl {
				a.firstErr = cerr.New(cerr.TypeError, c.File, ft.LineNum,
					"In redefined method %s, parameter type %s is different from original type %s",
					ft.Name, a.types.Name(ft.Formals[i].Decl), a.types.Name(of.Decl))
				return
			}
		}
		if overridden.Ret != ft.Ret {
			a.firstErr = cerr.New(cerr.TypeError, c.File, ft.LineNum,
				"In redefined method %s, return type %s is different from original return type %s.",
				ft.Name, a.types.Name(ft.Ret), a.types.Name(overridden.Ret))
			return
		}
	}

	a.pushScope()
	for _, formal := range ft.Formals {
		if formal.Name == "self" {
			a.firstErr = cerr.New(cerr.TypeError, c.File, ft.LineNum, "'self' cannot be the name of a formal parameter.")
			a.popScope()
			return
		}
		a.bind(formal.Name, formal.Decl)
	}
	bodyType, slots := a.infer(ft.Body)
	a.popScope()
	if a.firstErr != nil {
		return
	}
	if !a.conformsTo(bodyType, ft.Ret) {
		a.firstErr = cerr.New(cerr.TypeError, c.File, ft.LineNum,
			"Inferred return type %s of method %s does not conform to declared return type %s.",
			a.types.Name(bodyType), ft.Name, a.types.Name(ft.Ret))
		return
	}
	ft.StackDepth = len(ft.Formals) + slots
	c.MaxStackDepth = max(c.MaxStackDepth, ft.StackDepth)
}

// findInherited searches from's ancestor chain (from included) for a
// method named name, returning the nearest one.
func (a *Analyzer) findInherited(from ast.TypeID, name string) *ast.MethodFeature {
	for _, id := range a.ancestors(from) {
		cls, ok := a.classes[id]
		if !ok {
			continue
		}
		for _, f := range cls.Features {
			if m, ok := f.(*ast.MethodFeature); ok && m.Name == name {
				return m
			}
		}
	}
	return nil
}
