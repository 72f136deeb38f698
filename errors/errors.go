package errors

import (
	"fmt"

	"github.com/brodycritchlow/serpentine/types"
)

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.TokenKind
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	return fmt.Sprintf("got a %s, expected one of %s. %s", e.Got, e.Expected, e.Location)
}

// UnexpectedToken is raised where no production can start with the token.
type UnexpectedToken struct {
	Got      types.TokenKind
	Literal  string
	Location types.Span
}

func (e UnexpectedToken) Error() string {
	if e.Literal == "" {
		return fmt.Sprintf("unexpected %s. %s", e.Got, e.Location)
	}
	return fmt.Sprintf("unexpected %s %q. %s", e.Got, e.Literal, e.Location)
}

type IllegalCharacter struct {
	Char     rune
	Location types.Span
}

func (e IllegalCharacter) Error() string {
	return fmt.Sprintf("illegal character %q. %s", e.Char, e.Location)
}

type UnterminatedString struct {
	TripleQuoted bool
	Location     types.Span
}

func (e UnterminatedString) Error() string {
	if e.TripleQuoted {
		return fmt.Sprintf("unterminated triple-quoted string literal. %s", e.Location)
	}
	return fmt.Sprintf("unterminated string literal. %s", e.Location)
}

type InconsistentDedent struct {
	Location types.Span
}

func (e InconsistentDedent) Error() string {
	return fmt.Sprintf("unindent does not match any outer indentation level. %s", e.Location)
}

type InvalidNumber struct {
	Literal  string
	Location types.Span
}

func (e InvalidNumber) Error() string {
	return fmt.Sprintf("invalid numeric literal %q. %s", e.Literal, e.Location)
}

type InvalidAssignmentTarget struct {
	Target   string
	Location types.Span
}

func (e InvalidAssignmentTarget) Error() string {
	return fmt.Sprintf("cannot assign to %s. %s", e.Target, e.Location)
}
