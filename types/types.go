package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	NEWLINE
	INDENT
	DEDENT

	COLON
	SEMICOLON
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	EQUALS
	PERIOD
	ARROW
	ELLIPSIS
	OPERATOR
	AUGASSIGN

	INT
	FLOAT
	IMAGINARY
	STRING
	FSTRING
	BYTES

	IDENT
	KEYWORD
	TRUE
	FALSE
	NONE
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:       "EOF",
		ILLEGAL:   "ILLEGAL",
		NEWLINE:   "NEWLINE",
		INDENT:    "INDENT",
		DEDENT:    "DEDENT",
		COLON:     "COLON",
		SEMICOLON: "SEMICOLON",
		LPAREN:    "LPAREN",
		RPAREN:    "RPAREN",
		LBRACKET:  "LBRACKET",
		RBRACKET:  "RBRACKET",
		LBRACE:    "LBRACE",
		RBRACE:    "RBRACE",
		COMMA:     "COMMA",
		EQUALS:    "EQUALS",
		PERIOD:    "PERIOD",
		ARROW:     "ARROW",
		ELLIPSIS:  "ELLIPSIS",
		OPERATOR:  "OPERATOR",
		AUGASSIGN: "AUGASSIGN",
		INT:       "INT",
		FLOAT:     "FLOAT",
		IMAGINARY: "IMAGINARY",
		STRING:    "STRING",
		FSTRING:   "FSTRING",
		BYTES:     "BYTES",
		IDENT:     "IDENT",
		KEYWORD:   "KEYWORD",
		TRUE:      "TRUE",
		FALSE:     "FALSE",
		NONE:      "NONE",
	}
	return data[t]
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

type Token struct {
	Kind     TokenKind
	Location Span
}
