package parser

import (
	"io"

	"github.com/ztrue/tracerr"

	"github.com/brodycritchlow/serpentine/ast"
	"github.com/brodycritchlow/serpentine/errors"
	"github.com/brodycritchlow/serpentine/lexer"
	"github.com/brodycritchlow/serpentine/types"
)

type Parser struct {
	l   *lexer.Lexer
	ast ast.Program
}

func NewParser(l *lexer.Lexer) Parser {
	a := ast.Program{}
	return Parser{l, a}
}

// ParseSource parses a whole file. Nothing is returned on failure; the
// program is only usable when every statement parsed.
func ParseSource(r io.Reader, filename string) (ast.Program, error) {
	p := NewParser(lexer.NewLexer(r, filename))
	if err := p.Parse(); err != nil {
		return ast.Program{}, err
	}
	return p.Program(), nil
}

// IsIncomplete reports whether err was caused by the input ending in the
// middle of a statement, as opposed to input that can never parse.
func IsIncomplete(err error) bool {
	switch e := tracerr.Unwrap(err).(type) {
	case errors.ExpectedOneOfKindGotKind:
		return e.Got == types.EOF
	case errors.UnexpectedToken:
		return e.Got == types.EOF
	case errors.UnterminatedString:
		return e.TripleQuoted
	}
	return false
}

func (p *Parser) Program() ast.Program {
	return p.ast
}

func (p *Parser) Parse() (err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()
	for {
		tok, _ := p.l.Peek()

		switch tok.Kind {
		case types.EOF:
			p.l.Lex()
			return
		case types.NEWLINE:
			p.l.Lex()
			continue
		}

		p.ast.Statements = append(p.ast.Statements, p.parseStatement()...)
	}
}

var compoundKeywords = map[string]bool{
	"if": true, "elif": true, "else": true,
	"while": true, "for": true,
	"try": true, "except": true, "finally": true,
	"with": true, "def": true, "class": true, "async": true,
}

var simpleKeywords = map[string]bool{
	"pass": true, "break": true, "continue": true, "return": true,
	"import": true, "from": true, "global": true, "nonlocal": true,
	"del": true, "assert": true, "raise": true,
}

func (p *Parser) parseStatement() []ast.Statement {
	tok, lit := p.l.Peek()

	switch {
	case tok.Kind == types.KEYWORD && compoundKeywords[lit]:
		return []ast.Statement{p.parseCompound()}
	case tok.Kind != types.NEWLINE && !p.startsExpression() && !p.startsSimple():
		panic(errors.UnexpectedToken{
			Got:      tok.Kind,
			Literal:  lit,
			Location: tok.Location,
		})
	}

	var ret []ast.Statement
	for {
		ret = append(ret, p.parseSmallStatement())
		if !p.l.PeekIs(types.SEMICOLON) {
			break
		}
		p.l.Lex()
		if p.l.PeekIs(types.NEWLINE) {
			break
		}
	}
	p.l.LexExpecting(types.NEWLINE)

	return ret
}

func (p *Parser) startsSimple() bool {
	return p.l.PeekIsLiteral(types.KEYWORD, "pass", "break", "continue", "return", "import", "from",
		"global", "nonlocal", "del", "assert", "raise") || p.l.PeekIsLiteral(types.OPERATOR, "@")
}

// parseCompound consumes a compound statement header and skips its block;
// only module-level statements are checked.
func (p *Parser) parseCompound() ast.Statement {
	tok, keyword := p.l.Lex()
	depth := 0

header:
	for {
		t, _ := p.l.Lex()
		switch t.Kind {
		case types.EOF, types.NEWLINE:
			panic(errors.ExpectedOneOfKindGotKind{
				Expected: []types.TokenKind{types.COLON},
				Got:      t.Kind,
				Location: t.Location,
			})
		case types.LPAREN, types.LBRACKET, types.LBRACE:
			depth++
		case types.RPAREN, types.RBRACKET, types.RBRACE:
			depth--
		case types.COLON:
			if depth == 0 {
				break header
			}
		}
	}

	if p.l.PeekIs(types.NEWLINE) {
		p.l.LexExpecting(types.NEWLINE)
		p.l.LexExpecting(types.INDENT)
		p.skipBlock()
	} else {
		p.skipLine()
	}

	return ast.CompoundStatement{
		Keyword: keyword,
		Pos:     tok.Location,
	}
}

// skipBlock should be called with the parser past the INDENT that opens
// the block.
func (p *Parser) skipBlock() {
	depth := 1
	for depth > 0 {
		tok, _ := p.l.Lex()
		switch tok.Kind {
		case types.INDENT:
			depth++
		case types.DEDENT:
			depth--
		case types.EOF:
			panic(errors.ExpectedOneOfKindGotKind{
				Expected: []types.TokenKind{types.DEDENT},
				Got:      tok.Kind,
				Location: tok.Location,
			})
		}
	}
}

func (p *Parser) skipLine() {
	for {
		tok, _ := p.l.Lex()
		switch tok.Kind {
		case types.NEWLINE:
			return
		case types.EOF:
			panic(errors.ExpectedOneOfKindGotKind{
				Expected: []types.TokenKind{types.NEWLINE},
				Got:      tok.Kind,
				Location: tok.Location,
			})
		}
	}
}

func (p *Parser) parseSmallStatement() ast.Statement {
	tok, lit := p.l.Peek()

	if (tok.Kind == types.KEYWORD && simpleKeywords[lit]) || (tok.Kind == types.OPERATOR && lit == "@") {
		p.l.Lex()
		for !p.l.PeekIs(types.SEMICOLON, types.NEWLINE, types.EOF) {
			p.l.Lex()
		}
		return ast.SimpleStatement{
			Keyword: lit,
			Pos:     tok.Location,
		}
	}

	first := p.parseTestListStarExpr()
	augmented, _, op := p.l.PeekIsWithRet(types.AUGASSIGN)

	switch {
	case p.l.PeekIs(types.COLON):
		p.l.Lex()
		p.checkTargets(first, tok.Location)
		start, _ := p.l.Peek()
		annotation := p.parseTest()
		text := p.l.Text(types.Span{From: start.Location.From, To: p.l.Last().Location.To})

		var values []ast.Expression
		if p.l.PeekIs(types.EQUALS) {
			p.l.Lex()
			values = p.parseAssignValue()
		}

		return ast.TypedAssignment{
			Targets:        first,
			Annotation:     annotation,
			AnnotationText: text,
			Values:         values,
			Pos:            tok.Location,
		}
	case augmented:
		p.l.Lex()
		if len(first) != 1 {
			panic(errors.InvalidAssignmentTarget{Target: "tuple", Location: tok.Location})
		}
		p.checkTargets(first, tok.Location)

		return ast.AugmentedAssignment{
			Target: first[0],
			Op:     op,
			Values: p.parseAssignValue(),
			Pos:    tok.Location,
		}
	case p.l.PeekIs(types.EQUALS):
		var groups [][]ast.Expression
		targets := first
		for p.l.PeekIs(types.EQUALS) {
			p.l.Lex()
			p.checkTargets(targets, tok.Location)
			targets = p.parseAssignValue()
			groups = append(groups, targets)
		}

		return ast.Assignment{
			Targets: first,
			Values:  groups,
			Pos:     tok.Location,
		}
	}

	return ast.ExpressionStatement{
		Values: first,
		Pos:    tok.Location,
	}
}

func (p *Parser) parseAssignValue() []ast.Expression {
	if p.l.PeekIsLiteral(types.KEYWORD, "yield") {
		return []ast.Expression{p.parseYield()}
	}
	return p.parseTestListStarExpr()
}

func (p *Parser) checkTargets(targets []ast.Expression, at types.Span) {
	for _, target := range targets {
		if !assignable(target) {
			panic(errors.InvalidAssignmentTarget{
				Target:   ast.Format(target),
				Location: at,
			})
		}
	}
}

func assignable(e ast.Expression) bool {
	switch v := e.(type) {
	case ast.Name, ast.Attribute, ast.Subscript:
		return true
	case ast.Starred:
		return assignable(v.Value)
	case ast.TupleLit:
		for _, el := range v.Elements {
			if !assignable(el) {
				return false
			}
		}
		return true
	case ast.ListLit:
		for _, el := range v.Elements {
			if !assignable(el) {
				return false
			}
		}
		return true
	}
	return false
}
