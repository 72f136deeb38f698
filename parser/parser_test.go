package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ztrue/tracerr"

	"github.com/brodycritchlow/serpentine/ast"
	"github.com/brodycritchlow/serpentine/errors"
)

func parse(t *testing.T, src string) []ast.Statement {
	t.Helper()
	prog, err := ParseSource(strings.NewReader(src), "test.py")
	require.NoError(t, err)
	return prog.Statements
}

func parseExpr(t *testing.T, src string) ast.Expression {
	t.Helper()
	stmts := parse(t, "_ = "+src+"\n")
	require.Len(t, stmts, 1)
	assign, ok := stmts[0].(ast.Assignment)
	require.True(t, ok, "%T", stmts[0])
	require.Len(t, assign.Values, 1)
	require.Len(t, assign.Values[0], 1)
	return assign.Values[0][0]
}

func parseErr(src string) error {
	_, err := ParseSource(strings.NewReader(src), "test.py")
	return err
}

func TestTypedAssignment(t *testing.T) {
	stmts := parse(t, "x: int = 42\n")
	require.Len(t, stmts, 1)

	typed, ok := stmts[0].(ast.TypedAssignment)
	require.True(t, ok)
	require.Len(t, typed.Targets, 1)
	assert.Equal(t, "x", typed.Targets[0].(ast.Name).Ident)
	assert.Equal(t, "int", typed.Annotation.(ast.Name).Ident)
	require.Len(t, typed.Values, 1)
	assert.Equal(t, int64(42), typed.Values[0].(ast.Int).Value.Int64())
	assert.Equal(t, 1, typed.Pos.From.Line)
}

func TestTypedDeclarationWithoutValue(t *testing.T) {
	stmts := parse(t, "x: int")
	typed := stmts[0].(ast.TypedAssignment)
	assert.Empty(t, typed.Values)
}

func TestSubscriptedAnnotation(t *testing.T) {
	typed := parse(t, "x: List[int] = [1, 2, 3]")[0].(ast.TypedAssignment)
	assert.Equal(t, "List[int]", ast.Format(typed.Annotation))
	assert.Equal(t, "List[int]", typed.AnnotationText)
	assert.IsType(t, ast.ListLit{}, typed.Values[0])
}

func TestAnnotationTextKeepsSpelling(t *testing.T) {
	cases := map[string]string{
		"x: int = 1":                   "int",
		"x: int":                       "int",
		"x: List[ int ] = []":          "List[ int ]",
		"x: 'int'":                     "'int'",
		"x: a.b | None = None":         "a.b | None",
		"x: Dict[\n    str, int] = {}": "Dict[\n    str, int]",
	}
	for src, want := range cases {
		typed := parse(t, src)[0].(ast.TypedAssignment)
		assert.Equal(t, want, typed.AnnotationText, src)
	}
}

func TestAugmentedAssignment(t *testing.T) {
	aug := parse(t, "total //= 2")[0].(ast.AugmentedAssignment)
	assert.Equal(t, "total", ast.Format(aug.Target))
	assert.Equal(t, "//=", aug.Op)
	assert.Equal(t, "2", ast.Format(aug.Values[0]))
}

func TestChainedAssignment(t *testing.T) {
	assign := parse(t, "a = b = 1")[0].(ast.Assignment)
	require.Len(t, assign.Targets, 1)
	assert.Equal(t, "a", assign.Targets[0].(ast.Name).Ident)
	require.Len(t, assign.Values, 2)
	assert.Equal(t, "b", assign.Values[0][0].(ast.Name).Ident)
	assert.IsType(t, ast.Int{}, assign.Values[1][0])
}

func TestTupleAssignment(t *testing.T) {
	assign := parse(t, "a, b = 1, 'two'")[0].(ast.Assignment)
	assert.Len(t, assign.Targets, 2)
	require.Len(t, assign.Values, 1)
	require.Len(t, assign.Values[0], 2)
	assert.IsType(t, ast.Str{}, assign.Values[0][1])
}

func TestOtherStatements(t *testing.T) {
	src := `import os; x = 1
x += 1
print('hi')
@decorator
def f(x: int) -> int:
    y = 'a'
    if y:
        return 1
    return y
if x: y = 1
else:
    pass
z = 2
`
	stmts := parse(t, src)
	var got []string
	for _, s := range stmts {
		switch v := s.(type) {
		case ast.SimpleStatement:
			got = append(got, "simple "+v.Keyword)
		case ast.CompoundStatement:
			got = append(got, "compound "+v.Keyword)
		case ast.Assignment:
			got = append(got, "assign "+ast.Format(v.Targets[0]))
		case ast.AugmentedAssignment:
			got = append(got, "augmented "+v.Op)
		case ast.ExpressionStatement:
			got = append(got, "expr "+ast.Format(v.Values[0]))
		default:
			got = append(got, "other")
		}
	}

	assert.Equal(t, []string{
		"simple import",
		"assign x",
		"augmented +=",
		"expr print('hi')",
		"simple @",
		"compound def",
		"compound if",
		"compound else",
		"assign z",
	}, got)
}

func TestLiterals(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseExpr(t, `'a' "b"`).(ast.Str).Fragments)
	assert.IsType(t, ast.FString{}, parseExpr(t, `'a' f"{b}"`))
	assert.IsType(t, ast.Bytes{}, parseExpr(t, `b'a'`))
	assert.Equal(t, int64(16), parseExpr(t, "0x10").(ast.Int).Value.Int64())
	assert.Equal(t, int64(1000), parseExpr(t, "1_000").(ast.Int).Value.Int64())
	assert.Equal(t, 3.14, parseExpr(t, "3.14").(ast.Float).Value)
	assert.Equal(t, true, parseExpr(t, "True").(ast.Bool).Value)
	assert.Equal(t, false, parseExpr(t, "False").(ast.Bool).Value)
	assert.IsType(t, ast.NoneLit{}, parseExpr(t, "None"))
	assert.IsType(t, ast.Imaginary{}, parseExpr(t, "2j"))
	assert.IsType(t, ast.EllipsisLit{}, parseExpr(t, "..."))
}

func TestContainers(t *testing.T) {
	assert.Len(t, parseExpr(t, "(1,)").(ast.TupleLit).Elements, 1)
	assert.Len(t, parseExpr(t, "()").(ast.TupleLit).Elements, 0)
	assert.Len(t, parseExpr(t, "(1, 2, 3)").(ast.TupleLit).Elements, 3)
	assert.IsType(t, ast.Int{}, parseExpr(t, "(1)"))
	assert.Len(t, parseExpr(t, "[]").(ast.ListLit).Elements, 0)
	assert.Len(t, parseExpr(t, "[1, 2,]").(ast.ListLit).Elements, 2)
	assert.Len(t, parseExpr(t, "{}").(ast.DictLit).Items, 0)
	assert.Len(t, parseExpr(t, "{'key': 'value', **rest}").(ast.DictLit).Items, 2)
	assert.Len(t, parseExpr(t, "{1, 2}").(ast.SetLit).Elements, 2)

	comp := parseExpr(t, "[x * 2 for x in range(10) if x]").(ast.Comprehension)
	assert.Equal(t, "[", comp.Open)
	require.Len(t, comp.Clauses, 1)
	assert.Len(t, comp.Clauses[0].Conditions, 1)

	dictComp := parseExpr(t, "{k: v for k, v in items}").(ast.Comprehension)
	assert.IsType(t, ast.Pair{}, dictComp.Element)
	assert.Len(t, dictComp.Clauses[0].Targets, 2)
}

func TestExpressions(t *testing.T) {
	cases := map[string]string{
		"a + b * c":                "a + (b * c)",
		"-x ** 2":                  "-(x ** 2)",
		"not a and b or c":         "(not a and b) or c",
		"a if b else c":            "a if b else c",
		"x not in y":               "x not in y",
		"x is not None":            "x is not None",
		"f(1, *args, k=2, **kw)":   "f(1, *args, k=2, **kw)",
		"obj.attr[1:2, ::3]":       "obj.attr[1:2, ::3]",
		"lambda x, y=1: x":         "lambda x, y=1: x",
		"sum(x for x in xs)":       "sum((x for x in xs))",
		"(y := 10)":                "y := 10",
		"await fetch()":            "await fetch()",
		"a | b & c ^ d":            "a | ((b & c) ^ d)",
		"x << 1 >> 2":              "(x << 1) >> 2",
		"a < b <= c":               "(a < b) <= c",
		"~x // 2 % 3 @ m - 1 / 2":  "(((~x // 2) % 3) @ m) - (1 / 2)",
		"[*a, *b]":                 "[*a, *b]",
		"f'{x}' if flag else 'no'": "f'{x}' if flag else 'no'",
	}

	for src, want := range cases {
		assert.Equal(t, want, ast.Format(parseExpr(t, src)), src)
	}
}

func TestSliceBounds(t *testing.T) {
	sub := parseExpr(t, "xs[::3]").(ast.Subscript)
	slice := sub.Index.(ast.Slice)
	assert.Nil(t, slice.Lower)
	assert.Nil(t, slice.Upper)
	assert.Equal(t, "3", ast.Format(slice.Step))
}

func TestSyntaxErrors(t *testing.T) {
	for _, src := range []string{
		"x: = 42",
		"x = )",
		"1 = x",
		"f() = 1",
		"  x = 1",
		"x = 1 2",
		"a, b += 1",
		"x = 'a' b'b'",
		"x = 0x",
	} {
		err := parseErr(src)
		assert.Error(t, err, src)
		assert.False(t, IsIncomplete(err), src)
	}
}

func TestSyntaxErrorTypes(t *testing.T) {
	assert.IsType(t, errors.UnexpectedToken{}, tracerr.Unwrap(parseErr("x: = 42")))
	assert.IsType(t, errors.InvalidAssignmentTarget{}, tracerr.Unwrap(parseErr("1 = x")))
	assert.IsType(t, errors.InvalidNumber{}, tracerr.Unwrap(parseErr("x = 0x")))
}

func TestIncompleteInput(t *testing.T) {
	for _, src := range []string{
		"x = (1,",
		"x = [",
		"if x:",
		"def f(\n",
		"x = '''abc",
	} {
		err := parseErr(src)
		require.Error(t, err, src)
		assert.True(t, IsIncomplete(err), src)
	}
}

func TestEmptyInput(t *testing.T) {
	assert.Empty(t, parse(t, ""))
	assert.Empty(t, parse(t, "\n\n# only a comment\n"))
}
