package semant

import (
	"coolc/internal/ast"
	cerr "coolc/internal/errors"
)

// infer type-checks e, writing its inferred type and "can allocate"
// flag onto e.Info() in place (spec.md §3's post-analysis AST
// invariant), and returns (type, stack-slots) where slots is the
// maximum number of shadow-stack root slots spec.md §4.1 step 7
// requires for e's subtree. Once an error has been recorded,
// infer short-circuits and returns ast.NoType without recursing
// further, matching §7's "first error wins" propagation.
func (a *Analyzer) infer(e ast.Expression) (ast.TypeID, int) {
	if a.firstErr != nil || e == nil {
		return ast.NoType, 0
	}
	slots, _ := e.Accept(a).(int)
	if a.firstErr != nil {
		return ast.NoType, 0
	}
	return e.Info().Type, slots
}

func (a *Analyzer) fail(line int, format string, args ...interface{}) interface{} {
	if a.firstErr == nil {
		a.firstErr = cerr.New(cerr.TypeError, a.curClass.File, line, format, args...)
	}
	return 0
}

func (a *Analyzer) VisitBool(e *ast.BoolLit) interface{} {
	e.Type = ast.BoolType
	return 0
}

func (a *Analyzer) VisitInt(e *ast.IntLit) interface{} {
	e.Type = ast.IntType
	return 0
}

func (a *Analyzer) VisitString(e *ast.StringLit) interface{} {
	e.Type = ast.StringType
	return 0
}

func (a *Analyzer) VisitObject(e *ast.ObjectExpr) interface{} {
	if e.Name == "self" {
		e.Type = ast.SelfType
		return 0
	}
	t, ok := a.lookup(e.Name)
	if !ok {
		return a.fail(e.Line, "Undeclared identifier %s.", e.Name)
	}
	e.Type = t
	return 0
}

func (a *Analyzer) VisitAssign(e *ast.AssignExpr) interface{} {
	if e.Name == "self" {
		return a.fail(e.Line, "Cannot assign to 'self'.")
	}
	declared, ok := a.lookup(e.Name)
	if !ok {
		return a.fail(e.Line, "Assignment to undeclared identifier %s.", e.Name)
	}
	rhsType, slots := a.infer(e.RHS)
	if a.firstErr != nil {
		return 0
	}
	if !a.conformsTo(rhsType, declared) {
		return a.fail(e.Line, "Type %s of assigned expression does not conform to declared type %s of identifier %s.",
			a.types.Name(rhsType), a.types.Name(declared), e.Name)
	}
	e.Type = rhsType
	return slots
}

func (a *Analyzer) VisitNew(e *ast.NewExpr) interface{} {
	if e.Type != ast.SelfType {
		if _, ok := a.classes[e.Type]; !ok {
			return a.fail(e.Line, "'new' used with undefined class %s.", a.types.Name(e.Type))
		}
	}
	e.Info().Type = e.Type
	e.Info().CanAlloc = true
	return 1 // new needs at least one root slot
}

func (a *Analyzer) VisitDispatch(e *ast.DispatchExpr) interface{} {
	var recvType ast.TypeID
	recvSlots := 0
	if e.Receiver != nil {
		recvType, recvSlots = a.infer(e.Receiver)
	} else {
		recvType = ast.SelfType
	}
	if a.firstErr != nil {
		return 0
	}

	lookupType := recvType
	if e.Kind == ast.StaticDispatch {
		if e.StaticAt == ast.SelfType {
			return a.fail(e.Line, "Static dispatch to SELF_TYPE.")
		}
		if !a.conformsTo(recvType, e.StaticAt) {
			return a.fail(e.Line, "Expression type %s does not conform to declared static dispatch type %s.",
				a.types.Name(recvType), a.types.Name(e.StaticAt))
		}
		lookupType = e.StaticAt
	}

	method := a.findInherited(a.resolveSelf(lookupType), e.Method)
	if method == nil {
		return a.fail(e.Line, "Dispatch to undefined method %s.", e.Method)
	}
	if len(method.Formals) != len(e.Args) {
		return a.fail(e.Line, "Method %s called with wrong number of arguments.", e.Method)
	}

	maxArgSlots := 0
	for i, argExpr := range e.Args {
		argType, argSlots := a.infer(argExpr)
		if a.firstErr != nil {
			return 0
		}
		if !a.conformsTo(argType, method.Formals[i].Decl) {
			return a.fail(e.Line, "In call to %s, type %s of parameter %s does not conform to declared type %s.",
				e.Method, a.types.Name(argType), method.Formals[i].Name, a.types.Name(method.Formals[i].Decl))
		}
		maxArgSlots = max(maxArgSlots, argSlots)
	}

	ret := method.Ret
	if ret == ast.SelfType {
		ret = recvType
	}
	e.Info().Type = ret
	e.Info().CanAlloc = true
	// one slot per argument for spilling across receiver evaluation
	// (spec.md §4.1 step 7), plus whatever the receiver/args need.
	return len(e.Args) + max(recvSlots, maxArgSlots)
}

func (a *Analyzer) VisitIf(e *ast.IfExpr) interface{} {
	predType, predSlots := a.infer(e.Pred)
	if a.firstErr != nil {
		return 0
	}
	if predType != ast.BoolType {
		return a.fail(e.Line, "If predicate must be Bool, got %s.", a.types.Name(predType))
	}
	thenType, thenSlots := a.infer(e.Then)
	elseType, elseSlots := a.infer(e.Else)
	if a.firstErr != nil {
		return 0
	}
	e.Info().Type = a.lca(thenType, elseType)
	return max(predSlots, max(thenSlots, elseSlots))
}

func (a *Analyzer) VisitWhile(e *ast.WhileExpr) interface{} {
	predType, predSlots := a.infer(e.Pred)
	if a.firstErr != nil {
		return 0
	}
	if predType != ast.BoolType {
		return a.fail(e.Line, "Loop condition does not have type Bool.")
	}
	_, bodySlots := a.infer(e.Body)
	if a.firstErr != nil {
		return 0
	}
	e.Info().Type = ast.ObjectType
	return max(predSlots, bodySlots)
}

func (a *Analyzer) VisitBlock(e *ast.BlockExpr) interface{} {
	var last ast.TypeID = ast.ObjectType
	slots := 0
	for _, sub := range e.Exprs {
		t, s := a.infer(sub)
		if a.firstErr != nil {
			return 0
		}
		last = t
		slots = max(slots, s)
	}
	e.Info().Type = last
	return slots
}

func (a *Analyzer) VisitLet(e *ast.LetExpr) interface{} {
	initSlots := 0
	if e.Init != nil {
		initType, s := a.infer(e.Init)
		if a.firstErr != nil {
			return 0
		}
		if !a.conformsTo(initType, e.Decl) {
			return a.fail(e.Line, "Inferred type %s of initialization of %s does not conform to identifier's declared type %s.",
				a.types.Name(initType), e.Name, a.types.Name(e.Decl))
		}
		initSlots = s
	}
	a.pushScope()
	a.bind(e.Name, e.Decl)
	bodyType, bodySlots := a.infer(e.Body)
	a.popScope()
	if a.firstErr != nil {
		return 0
	}
	e.Info().Type = bodyType
	// a let needs one slot for its binding (spec.md §4.1 step 7).
	return max(initSlots, 1+bodySlots)
}

func (a *Analyzer) VisitCase(e *ast.CaseExpr) interface{} {
	_, scrutSlots := a.infer(e.Scrutinee)
	if a.firstErr != nil {
		return 0
	}
	if len(e.Branches) == 0 {
		return a.fail(e.Line, "Case expression has no branches.")
	}
	seen := make(map[ast.TypeID]bool, len(e.Branches))
	var result ast.TypeID
	branchSlots := 0
	for i, br := range e.Branches {
		if seen[br.Decl] {
			return a.fail(e.Line, "Duplicate branch %s in case statement.", a.types.Name(br.Decl))
		}
		seen[br.Decl] = true
		a.pushScope()
		a.bind(br.Name, br.Decl)
		bt, bs := a.infer(br.Body)
		a.popScope()
		if a.firstErr != nil {
			return 0
		}
		branchSlots = max(branchSlots, bs)
		if i == 0 {
			result = bt
		} else {
			result = a.lca(result, bt)
		}
	}
	e.Info().Type = result
	// a case needs one slot for the scrutinee in each branch.
	return 1 + max(scrutSlots, branchSlots)
}

func (a *Analyzer) VisitBinaryOp(e *ast.BinaryOpExpr) interface{} {
	lhsType, lhsSlots := a.infer(e.LHS)
	rhsType, rhsSlots := a.infer(e.RHS)
	if a.firstErr != nil {
		return 0
	}
	switch e.Op {
	case ast.OpEq:
		if isBasic(lhsType) || isBasic(rhsType) {
			if lhsType != rhsType {
				return a.fail(e.Line, "Cannot compare %s with %s.", a.types.Name(lhsType), a.types.Name(rhsType))
			}
		}
		e.Info().Type = ast.BoolType
	case ast.OpLt, ast.OpLe:
		if lhsType != ast.IntType || rhsType != ast.IntType {
			return a.fail(e.Line, "non-Int arguments: %s %s %s", a.types.Name(lhsType), e.Op, a.types.Name(rhsType))
		}
		e.Info().Type = ast.BoolType
	default: // + - * /
		if lhsType != ast.IntType || rhsType != ast.IntType {
			return a.fail(e.Line, "non-Int arguments: %s %s %s", a.types.Name(lhsType), e.Op, a.types.Name(rhsType))
		}
		e.Info().Type = ast.IntType
		e.Info().CanAlloc = true
	}
	// a binary op needs one extra slot to hold the left operand
	// across the right (spec.md §4.1 step 7).
	return max(lhsSlots, 1+rhsSlots)
}

func isBasic(t ast.TypeID) bool {
	return t == ast.IntType || t == ast.BoolType || t == ast.StringType
}

func (a *Analyzer) VisitUnaryOp(e *ast.UnaryOpExpr) interface{} {
	operandType, slots := a.infer(e.Operand)
	if a.firstErr != nil {
		return 0
	}
	switch e.Op {
	case ast.OpNeg:
		if operandType != ast.IntType {
			return a.fail(e.Line, "Argument of '~' has type %s instead of Int.", a.types.Name(operandType))
		}
		e.Info().Type = ast.IntType
		e.Info().CanAlloc = true
	case ast.OpNot:
		if operandType != ast.BoolType {
			return a.fail(e.Line, "Argument of 'not' has type %s instead of Bool.", a.types.Name(operandType))
		}
		e.Info().Type = ast.BoolType
	case ast.OpIsVoid:
		e.Info().Type = ast.BoolType
	}
	return slots
}
