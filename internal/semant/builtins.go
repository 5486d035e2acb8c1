package semant

import "coolc/internal/ast"

// installBuiltins synthesizes Object, IO, Int, Bool and String with
// their known signatures and no bodies, per spec.md §4.1 step 2.
func installBuiltins(t *ast.TypeTable) []*ast.Class {
	object := &ast.Class{
		Name:   ast.ObjectType,
		Parent: ast.EmptyType,
		File:   "<basic class>",
		Features: []ast.Feature{
			ast.Method(t, "abort", "Object", nil),
			ast.Method(t, "type_name", "String", nil),
			ast.Method(t, "copy", "SELF_TYPE", nil),
		},
	}
	io := &ast.Class{
		Name:   ast.IOType,
		Parent: ast.ObjectType,
		File:   "<basic class>",
		Features: []ast.Feature{
			ast.Method(t, "out_string", "SELF_TYPE", nil, ast.F(t, "x", "String")),
			ast.Method(t, "out_int", "SELF_TYPE", nil, ast.F(t, "x", "Int")),
			ast.Method(t, "in_string", "String", nil),
			ast.Method(t, "in_int", "Int", nil),
		},
	}
	intC := &ast.Class{
		Name: ast.IntType, Parent: ast.ObjectType, File: "<basic class>",
	}
	boolC := &ast.Class{
		Name: ast.BoolType, Parent: ast.ObjectType, File: "<basic class>",
	}
	stringC := &ast.Class{
		Name:   ast.StringType,
		Parent: ast.ObjectType,
		File:   "<basic class>",
		Features: []ast.Feature{
			ast.Method(t, "length", "Int", nil),
			ast.Method(t, "concat", "String", nil, ast.F(t, "s", "String")),
			ast.Method(t, "substr", "String", nil, ast.F(t, "i", "Int"), ast.F(t, "l", "Int")),
		},
	}
	return []*ast.Class{object, io, intC, boolC, stringC}
}

func isBuiltinName(t *ast.TypeTable, id ast.TypeID) bool {
	return t.IsBuiltin(id)
}
