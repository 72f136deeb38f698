// Package ast holds the module-level syntax tree of a Python source file.
//
// Statement and Expression are closed sums; their marker methods are
// generated from sum.adt.
package ast

import (
	"math/big"

	"github.com/brodycritchlow/serpentine/types"
)

//go:generate sh -c "cd ../tool && go run . ../ast/sum.adt ../ast/sum.go ast"

type Program struct {
	Statements []Statement
}

// TypedAssignment is `targets: annotation [= values]`.
type TypedAssignment struct {
	Targets    []Expression
	Annotation Expression

	// AnnotationText is the annotation as written in the source.
	AnnotationText string
	Values         []Expression
	Pos            types.Span
}

// Assignment is `targets = values...`. In a chain like `a = b = 1` the
// first list is Targets and every later list, the last one included, is
// an entry of Values.
type Assignment struct {
	Targets []Expression
	Values  [][]Expression
	Pos     types.Span
}

type AugmentedAssignment struct {
	Target Expression
	Op     string
	Values []Expression
	Pos    types.Span
}

type ExpressionStatement struct {
	Values []Expression
	Pos    types.Span
}

// SimpleStatement is a keyword statement on one line: pass, import,
// return and the like.
type SimpleStatement struct {
	Keyword string
	Pos     types.Span
}

// CompoundStatement is a statement with a block (if, def, class...). Its
// body is not part of the tree.
type CompoundStatement struct {
	Keyword string
	Pos     types.Span
}

type Name struct {
	Ident string
	Pos   types.Span
}

type Int struct {
	Value *big.Int
	Text  string
	Pos   types.Span
}

type Float struct {
	Value float64
	Text  string
	Pos   types.Span
}

type Imaginary struct {
	Text string
	Pos  types.Span
}

// Str is one or more adjacent string literals, already unescaped.
type Str struct {
	Fragments []string
	Pos       types.Span
}

type FString struct {
	Fragments []string
	Pos       types.Span
}

type Bytes struct {
	Fragments []string
	Pos       types.Span
}

type Bool struct {
	Value bool
	Pos   types.Span
}

type NoneLit struct {
	Pos types.Span
}

type EllipsisLit struct {
	Pos types.Span
}

type ListLit struct {
	Elements []Expression
	Pos      types.Span
}

type TupleLit struct {
	Elements []Expression
	Pos      types.Span
}

type SetLit struct {
	Elements []Expression
	Pos      types.Span
}

// DictLit items are Pair or DoubleStarred.
type DictLit struct {
	Items []Expression
	Pos   types.Span
}

type Pair struct {
	Key   Expression
	Value Expression
}

type ComprehensionClause struct {
	Async      bool
	Targets    []Expression
	Iter       Expression
	Conditions []Expression
}

// Comprehension covers list, set, dict and generator forms; Open is the
// opening bracket.
type Comprehension struct {
	Open    string
	Element Expression
	Clauses []ComprehensionClause
	Pos     types.Span
}

type Call struct {
	Func Expression
	Args []Expression
}

type Keyword struct {
	Name  string
	Value Expression
}

type Subscript struct {
	Value Expression
	Index Expression
}

// Slice bounds are nil when omitted.
type Slice struct {
	Lower Expression
	Upper Expression
	Step  Expression
}

type Attribute struct {
	Value Expression
	Name  string
}

type BinaryOp struct {
	Op    string
	Left  Expression
	Right Expression
}

type UnaryOp struct {
	Op      string
	Operand Expression
}

type Conditional struct {
	Condition Expression
	Then      Expression
	Else      Expression
}

type Lambda struct {
	Params []string
	Body   Expression
}

type Starred struct {
	Value Expression
}

type DoubleStarred struct {
	Value Expression
}

type NamedExpr struct {
	Target Expression
	Value  Expression
}

type Await struct {
	Value Expression
}

type Yield struct {
	Value Expression
	From  bool
}
