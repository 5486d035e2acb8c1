package ast

// This file provides small construction helpers used by package
// tests. Because the
// lexer and parser are external collaborators (spec.md §1), tests
// throughout this module build *Program trees directly instead of
// round-tripping through source text — the same way the teacher's own
// internal/parser/parser_test.go constructs Expr values by hand.

// NewClass constructs a Class with the given name/parent already
// interned in t.
func NewClass(t *TypeTable, name, parent string, file string, line int, features ...Feature) *Class {
	return &Class{
		Name:     t.Intern(name),
		Parent:   t.Intern(parent),
		File:     file,
		Line:     line,
		Features: features,
	}
}

// Attr builds an AttrFeature.
func Attr(t *TypeTable, name, decl string, init Expression) *AttrFeature {
	return &AttrFeature{Name: name, Decl: t.Intern(decl), Init: init}
}

// Method builds a MethodFeature.
func Method(t *TypeTable, name, ret string, body Expression, formals ...Formal) *MethodFeature {
	return &MethodFeature{Name: name, Ret: t.Intern(ret), Body: body, Formals: formals}
}

// F builds a Formal.
func F(t *TypeTable, name, decl string) Formal {
	return Formal{Name: name, Decl: t.Intern(decl)}
}

// Int, Str, Bool, Obj, and the expression-builder functions below
// build un-annotated (pre-analysis) expression nodes at line 0; tests
// that care about line numbers set e.Info().Line after construction.

func Int(v int64) *IntLit       { return &IntLit{Value: v} }
func Str(v string) *StringLit   { return &StringLit{Value: v} }
func Bool(v bool) *BoolLit      { return &BoolLit{Value: v} }
func Obj(name string) *ObjectExpr { return &ObjectExpr{Name: name} }

func Assign(name string, rhs Expression) *AssignExpr {
	return &AssignExpr{Name: name, RHS: rhs}
}

func New(t *TypeTable, typ string) *NewExpr {
	return &NewExpr{Type: t.Intern(typ)}
}

func Dispatch(recv Expression, method string, args ...Expression) *DispatchExpr {
	return &DispatchExpr{Receiver: recv, Kind: VirtualDispatch, Method: method, Args: args}
}

func StaticDispatchOn(t *TypeTable, recv Expression, at string, method string, args ...Expression) *DispatchExpr {
	return &DispatchExpr{Receiver: recv, Kind: StaticDispatch, StaticAt: t.Intern(at), Method: method, Args: args}
}

func If(pred, then, els Expression) *IfExpr { return &IfExpr{Pred: pred, Then: then, Else: els} }

func While(pred, body Expression) *WhileExpr { return &WhileExpr{Pred: pred, Body: body} }

func Block(exprs ...Expression) *BlockExpr { return &BlockExpr{Exprs: exprs} }

func Let(t *TypeTable, name, decl string, init, body Expression) *LetExpr {
	return &LetExpr{Name: name, Decl: t.Intern(decl), Init: init, Body: body}
}

func Case(scrutinee Expression, branches ...CaseBranch) *CaseExpr {
	return &CaseExpr{Scrutinee: scrutinee, Branches: branches}
}

func Branch(t *TypeTable, name, decl string, body Expression) CaseBranch {
	return CaseBranch{Name: name, Decl: t.Intern(decl), Body: body}
}

func Bin(op BinaryOperator, lhs, rhs Expression) *BinaryOpExpr {
	return &BinaryOpExpr{Op: op, LHS: lhs, RHS: rhs}
}

func Un(op UnaryOperator, operand Expression) *UnaryOpExpr {
	return &UnaryOpExpr{Op: op, Operand: operand}
}
