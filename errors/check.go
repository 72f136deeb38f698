package errors

import (
	"fmt"

	"github.com/brodycritchlow/serpentine/pytype"
)

// ParseError means the source could not be turned into statements at all.
// Diagnostic holds the parser's message; Cause keeps the traced error for
// callers that want to print its stack.
type ParseError struct {
	Diagnostic string
	Cause      error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("Parse error: %s", e.Diagnostic)
}

func (e ParseError) Unwrap() error {
	return e.Cause
}

type UnsupportedAnnotation struct {
	Annotation string
}

func (e UnsupportedAnnotation) Error() string {
	return fmt.Sprintf("Unsupported annotation: %s", e.Annotation)
}

type UnknownType struct {
	Name string
}

func (e UnknownType) Error() string {
	return fmt.Sprintf("Unknown type: %s", e.Name)
}

// TypeMismatch is an assignment whose value type is not assignable to the
// variable's expected type. Literal is empty unless the value was an int or
// str literal.
type TypeMismatch struct {
	Variable string
	Expected pytype.Type
	Actual   pytype.Type
	Literal  string
}

func (e TypeMismatch) Error() string {
	shown := e.Actual.String()
	if e.Literal != "" {
		shown = fmt.Sprintf("Literal[%s]", e.Literal)
	}
	return fmt.Sprintf(
		"Type \"%s\" is not assignable to declared type \"%s\"\n  \"%s\" is not assignable to \"%s\"",
		shown, e.Expected, shown, e.Expected,
	)
}
