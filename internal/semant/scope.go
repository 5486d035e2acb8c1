package semant

import "coolc/internal/ast"

func (a *Analyzer) pushScope() {
	a.scopes = append(a.scopes, make(map[string]ast.TypeID))
}

func (a *Analyzer) popScope() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

func (a *Analyzer) bind(name string, t ast.TypeID) {
	a.scopes[len(a.scopes)-1][name] = t
}

// lookup searches scopes innermost-first, per spec.md §4.1 step 6
// ("Identifier lookup traverses scopes innermost-first").
func (a *Analyzer) lookup(name string) (ast.TypeID, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if t, ok := a.scopes[i][name]; ok {
			return t, true
		}
	}
	return ast.NoType, false
}
