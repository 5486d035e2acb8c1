// Package frontend defines the external contract for the lexer and
// parser, both explicitly out of scope for this module (spec.md §1).
// internal/semant and everything downstream consumes an *ast.Program
// directly; a concrete ProgramSource only needs to produce one.
package frontend

import "coolc/internal/ast"

// ProgramSource parses one compilation unit into an untyped AST. A
// real implementation would wrap a lexer and a recursive-descent or
// generated parser; tests construct *ast.Program values by hand
// instead (internal/ast/build.go), the same way the teacher's own
// parser tests build AST nodes directly rather than always
// round-tripping through the scanner.
type ProgramSource interface {
	Parse() (*ast.Program, error)
}
