package checker

import (
	"strings"

	"github.com/brodycritchlow/serpentine/ast"
	"github.com/brodycritchlow/serpentine/pytype"
)

// Infer returns the type of a literal expression. Names, calls, operators,
// comprehensions and f-strings have no inferable type.
func Infer(e ast.Expression) (pytype.Type, bool) {
	switch e.(type) {
	case ast.Int:
		return pytype.Integer, true
	case ast.Float:
		return pytype.Float, true
	case ast.Str:
		return pytype.String, true
	case ast.Bool:
		return pytype.Boolean, true
	case ast.ListLit:
		return pytype.List, true
	case ast.DictLit:
		return pytype.Dict, true
	case ast.TupleLit:
		return pytype.Tuple, true
	}
	return 0, false
}

// LiteralValue is the text shown for a value in a mismatch message: the
// decimal digits of an int literal or the quoted contents of a str literal.
// Anything else has no literal text.
func LiteralValue(e ast.Expression) string {
	switch v := e.(type) {
	case ast.Int:
		return v.Value.String()
	case ast.Str:
		return ast.Quote(strings.Join(v.Fragments, ""))
	}
	return ""
}
