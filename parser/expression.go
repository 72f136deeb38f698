package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/brodycritchlow/serpentine/ast"
	"github.com/brodycritchlow/serpentine/errors"
	"github.com/brodycritchlow/serpentine/types"
)

func (p *Parser) startsExpression() bool {
	switch {
	case p.l.PeekIs(
		types.IDENT, types.INT, types.FLOAT, types.IMAGINARY,
		types.STRING, types.FSTRING, types.BYTES,
		types.TRUE, types.FALSE, types.NONE, types.ELLIPSIS,
		types.LPAREN, types.LBRACKET, types.LBRACE,
	):
		return true
	case p.l.PeekIsLiteral(types.OPERATOR, "-", "+", "~", "*", "**"):
		return true
	case p.l.PeekIsLiteral(types.KEYWORD, "not", "lambda", "await", "yield"):
		return true
	}
	return false
}

func (p *Parser) expectKeyword(keyword string) {
	tok, lit := p.l.Lex()
	if tok.Kind != types.KEYWORD || lit != keyword {
		panic(errors.UnexpectedToken{Got: tok.Kind, Literal: lit, Location: tok.Location})
	}
}

// parseTestListStarExpr parses a comma separated list; a trailing comma is
// allowed and dropped.
func (p *Parser) parseTestListStarExpr() []ast.Expression {
	var ret []ast.Expression
	for {
		if p.l.PeekIsLiteral(types.OPERATOR, "*") {
			p.l.Lex()
			ret = append(ret, ast.Starred{Value: p.parseBinary(0)})
		} else {
			ret = append(ret, p.parseTest())
		}

		if !p.l.PeekIs(types.COMMA) {
			return ret
		}
		p.l.Lex()
		if !p.startsExpression() {
			return ret
		}
	}
}

func (p *Parser) parseTest() ast.Expression {
	if p.l.PeekIsLiteral(types.KEYWORD, "lambda") {
		return p.parseLambda()
	}

	then := p.parseOrTest()
	if !p.l.PeekIsLiteral(types.KEYWORD, "if") {
		return then
	}

	p.l.Lex()
	cond := p.parseOrTest()
	p.expectKeyword("else")

	return ast.Conditional{
		Condition: cond,
		Then:      then,
		Else:      p.parseTest(),
	}
}

func (p *Parser) parseLambda() ast.Expression {
	p.expectKeyword("lambda")

	var params []string
	for !p.l.PeekIs(types.COLON) {
		param := ""
		if p.l.PeekIsLiteral(types.OPERATOR, "*", "**", "/") {
			_, param = p.l.Lex()
		}
		if p.l.PeekIs(types.IDENT) {
			_, name := p.l.Lex()
			param += name
		}
		if p.l.PeekIs(types.EQUALS) {
			p.l.Lex()
			param += "=" + ast.Format(p.parseTest())
		}
		params = append(params, param)

		if !p.l.PeekIs(types.COMMA) {
			break
		}
		p.l.Lex()
	}
	p.l.LexExpecting(types.COLON)

	return ast.Lambda{
		Params: params,
		Body:   p.parseTest(),
	}
}

func (p *Parser) parseOrTest() ast.Expression {
	left := p.parseAndTest()
	for p.l.PeekIsLiteral(types.KEYWORD, "or") {
		p.l.Lex()
		left = ast.BinaryOp{Op: "or", Left: left, Right: p.parseAndTest()}
	}
	return left
}

func (p *Parser) parseAndTest() ast.Expression {
	left := p.parseNotTest()
	for p.l.PeekIsLiteral(types.KEYWORD, "and") {
		p.l.Lex()
		left = ast.BinaryOp{Op: "and", Left: left, Right: p.parseNotTest()}
	}
	return left
}

func (p *Parser) parseNotTest() ast.Expression {
	if p.l.PeekIsLiteral(types.KEYWORD, "not") {
		p.l.Lex()
		return ast.UnaryOp{Op: "not", Operand: p.parseNotTest()}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseBinary(0)
	for {
		var op string
		switch {
		case p.l.PeekIsLiteral(types.OPERATOR, "<", ">", "==", ">=", "<=", "!="):
			_, op = p.l.Lex()
		case p.l.PeekIsLiteral(types.KEYWORD, "in"):
			_, op = p.l.Lex()
		case p.l.PeekIsLiteral(types.KEYWORD, "not"):
			p.l.Lex()
			p.expectKeyword("in")
			op = "not in"
		case p.l.PeekIsLiteral(types.KEYWORD, "is"):
			p.l.Lex()
			op = "is"
			if p.l.PeekIsLiteral(types.KEYWORD, "not") {
				p.l.Lex()
				op = "is not"
			}
		default:
			return left
		}
		left = ast.BinaryOp{Op: op, Left: left, Right: p.parseBinary(0)}
	}
}

// binaryLevels lists the binary operators from loosest to tightest.
var binaryLevels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "@", "/", "//", "%"},
}

func (p *Parser) parseBinary(level int) ast.Expression {
	if level == len(binaryLevels) {
		return p.parseFactor()
	}

	left := p.parseBinary(level + 1)
	for p.l.PeekIsLiteral(types.OPERATOR, binaryLevels[level]...) {
		_, op := p.l.Lex()
		left = ast.BinaryOp{Op: op, Left: left, Right: p.parseBinary(level + 1)}
	}
	return left
}

func (p *Parser) parseFactor() ast.Expression {
	if p.l.PeekIsLiteral(types.OPERATOR, "+", "-", "~") {
		_, op := p.l.Lex()
		return ast.UnaryOp{Op: op, Operand: p.parseFactor()}
	}
	return p.parsePower()
}

func (p *Parser) parsePower() ast.Expression {
	var base ast.Expression
	if p.l.PeekIsLiteral(types.KEYWORD, "await") {
		p.l.Lex()
		base = ast.Await{Value: p.parseAtomExpr()}
	} else {
		base = p.parseAtomExpr()
	}

	if p.l.PeekIsLiteral(types.OPERATOR, "**") {
		p.l.Lex()
		return ast.BinaryOp{Op: "**", Left: base, Right: p.parseFactor()}
	}
	return base
}

func (p *Parser) parseAtomExpr() ast.Expression {
	expr := p.parseAtom()
	for {
		switch {
		case p.l.PeekIs(types.LPAREN):
			p.l.Lex()
			expr = ast.Call{Func: expr, Args: p.parseArguments()}
		case p.l.PeekIs(types.LBRACKET):
			p.l.Lex()
			expr = ast.Subscript{Value: expr, Index: p.parseSubscript()}
		case p.l.PeekIs(types.PERIOD):
			p.l.Lex()
			_, name := p.l.LexExpecting(types.IDENT)
			expr = ast.Attribute{Value: expr, Name: name}
		default:
			return expr
		}
	}
}

// parseArguments should be called with the parser past the opening paren.
func (p *Parser) parseArguments() []ast.Expression {
	var args []ast.Expression

	for !p.l.PeekIs(types.RPAREN) {
		args = append(args, p.parseArgument())
		if !p.l.PeekIs(types.COMMA) {
			break
		}
		p.l.Lex()
	}
	p.l.LexExpecting(types.RPAREN)

	return args
}

func (p *Parser) parseArgument() ast.Expression {
	switch {
	case p.l.PeekIsLiteral(types.OPERATOR, "*"):
		p.l.Lex()
		return ast.Starred{Value: p.parseTest()}
	case p.l.PeekIsLiteral(types.OPERATOR, "**"):
		p.l.Lex()
		return ast.DoubleStarred{Value: p.parseTest()}
	}

	tok, _ := p.l.Peek()
	arg := p.parseTest()

	switch {
	case p.l.PeekIs(types.EQUALS):
		name, ok := arg.(ast.Name)
		if !ok {
			panic(errors.InvalidAssignmentTarget{Target: ast.Format(arg), Location: tok.Location})
		}
		p.l.Lex()
		return ast.Keyword{Name: name.Ident, Value: p.parseTest()}
	case p.l.PeekIsLiteral(types.OPERATOR, ":="):
		p.l.Lex()
		return ast.NamedExpr{Target: arg, Value: p.parseTest()}
	case p.l.PeekIsLiteral(types.KEYWORD, "for", "async"):
		return p.parseComprehension("(", arg, tok.Location)
	}
	return arg
}

// parseSubscript should be called with the parser past the opening bracket.
func (p *Parser) parseSubscript() ast.Expression {
	var items []ast.Expression
	trailingComma := false

	for {
		items = append(items, p.parseSliceItem())
		if !p.l.PeekIs(types.COMMA) {
			break
		}
		p.l.Lex()
		if p.l.PeekIs(types.RBRACKET) {
			trailingComma = true
			break
		}
	}
	p.l.LexExpecting(types.RBRACKET)

	if len(items) == 1 && !trailingComma {
		return items[0]
	}
	return ast.TupleLit{Elements: items}
}

func (p *Parser) parseSliceItem() ast.Expression {
	var lower ast.Expression
	if !p.l.PeekIs(types.COLON) {
		lower = p.parseNamedOrStar()
	}
	if !p.l.PeekIs(types.COLON) {
		return lower
	}
	p.l.Lex()

	s := ast.Slice{Lower: lower}
	if !p.l.PeekIs(types.COLON, types.COMMA, types.RBRACKET) {
		s.Upper = p.parseTest()
	}
	if p.l.PeekIs(types.COLON) {
		p.l.Lex()
		if !p.l.PeekIs(types.COMMA, types.RBRACKET) {
			s.Step = p.parseTest()
		}
	}
	return s
}

func (p *Parser) parseNamedOrStar() ast.Expression {
	if p.l.PeekIsLiteral(types.OPERATOR, "*") {
		p.l.Lex()
		return ast.Starred{Value: p.parseBinary(0)}
	}

	expr := p.parseTest()
	if p.l.PeekIsLiteral(types.OPERATOR, ":=") {
		p.l.Lex()
		return ast.NamedExpr{Target: expr, Value: p.parseTest()}
	}
	return expr
}

func (p *Parser) parseYield() ast.Expression {
	p.expectKeyword("yield")

	if p.l.PeekIsLiteral(types.KEYWORD, "from") {
		p.l.Lex()
		return ast.Yield{From: true, Value: p.parseTest()}
	}
	if !p.startsExpression() {
		return ast.Yield{}
	}

	values := p.parseTestListStarExpr()
	if len(values) == 1 {
		return ast.Yield{Value: values[0]}
	}
	return ast.Yield{Value: ast.TupleLit{Elements: values}}
}

func (p *Parser) parseAtom() ast.Expression {
	tok, lit := p.l.Lex()

	switch tok.Kind {
	case types.IDENT:
		return ast.Name{Ident: lit, Pos: tok.Location}
	case types.INT:
		v, ok := new(big.Int).SetString(lit, 0)
		if !ok {
			panic(errors.InvalidNumber{Literal: lit, Location: tok.Location})
		}
		return ast.Int{Value: v, Text: lit, Pos: tok.Location}
	case types.FLOAT:
		v, err := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64)
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err != strconv.ErrRange {
			panic(errors.InvalidNumber{Literal: lit, Location: tok.Location})
		}
		return ast.Float{Value: v, Text: lit, Pos: tok.Location}
	case types.IMAGINARY:
		return ast.Imaginary{Text: lit, Pos: tok.Location}
	case types.STRING, types.FSTRING, types.BYTES:
		return p.parseStrings(tok, lit)
	case types.TRUE, types.FALSE:
		return ast.Bool{Value: tok.Kind == types.TRUE, Pos: tok.Location}
	case types.NONE:
		return ast.NoneLit{Pos: tok.Location}
	case types.ELLIPSIS:
		return ast.EllipsisLit{Pos: tok.Location}
	case types.LPAREN:
		return p.parseParen(tok.Location)
	case types.LBRACKET:
		return p.parseList(tok.Location)
	case types.LBRACE:
		return p.parseBrace(tok.Location)
	}

	panic(errors.UnexpectedToken{
		Got:      tok.Kind,
		Literal:  lit,
		Location: tok.Location,
	})
}

// parseStrings joins adjacent literals. One f-string fragment makes the
// whole concatenation an f-string.
func (p *Parser) parseStrings(first types.Token, lit string) ast.Expression {
	kind := first.Kind
	fragments := []string{lit}

	for p.l.PeekIs(types.STRING, types.FSTRING, types.BYTES) {
		tok, lit := p.l.Lex()
		if (kind == types.BYTES) != (tok.Kind == types.BYTES) {
			panic(errors.UnexpectedToken{Got: tok.Kind, Literal: lit, Location: tok.Location})
		}
		if tok.Kind == types.FSTRING {
			kind = types.FSTRING
		}
		fragments = append(fragments, lit)
	}

	switch kind {
	case types.FSTRING:
		return ast.FString{Fragments: fragments, Pos: first.Location}
	case types.BYTES:
		return ast.Bytes{Fragments: fragments, Pos: first.Location}
	}
	return ast.Str{Fragments: fragments, Pos: first.Location}
}

func (p *Parser) parseParen(at types.Span) ast.Expression {
	if p.l.PeekIs(types.RPAREN) {
		p.l.Lex()
		return ast.TupleLit{Pos: at}
	}
	if p.l.PeekIsLiteral(types.KEYWORD, "yield") {
		y := p.parseYield()
		p.l.LexExpecting(types.RPAREN)
		return y
	}

	first := p.parseNamedOrStar()
	if p.l.PeekIsLiteral(types.KEYWORD, "for", "async") {
		comp := p.parseComprehension("(", first, at)
		p.l.LexExpecting(types.RPAREN)
		return comp
	}
	if p.l.PeekIs(types.RPAREN) {
		p.l.Lex()
		return first
	}

	elements := []ast.Expression{first}
	for p.l.PeekIs(types.COMMA) {
		p.l.Lex()
		if p.l.PeekIs(types.RPAREN) {
			break
		}
		elements = append(elements, p.parseNamedOrStar())
	}
	p.l.LexExpecting(types.RPAREN)

	return ast.TupleLit{Elements: elements, Pos: at}
}

func (p *Parser) parseList(at types.Span) ast.Expression {
	if p.l.PeekIs(types.RBRACKET) {
		p.l.Lex()
		return ast.ListLit{Pos: at}
	}

	first := p.parseNamedOrStar()
	if p.l.PeekIsLiteral(types.KEYWORD, "for", "async") {
		comp := p.parseComprehension("[", first, at)
		p.l.LexExpecting(types.RBRACKET)
		return comp
	}

	elements := []ast.Expression{first}
	for p.l.PeekIs(types.COMMA) {
		p.l.Lex()
		if p.l.PeekIs(types.RBRACKET) {
			break
		}
		elements = append(elements, p.parseNamedOrStar())
	}
	p.l.LexExpecting(types.RBRACKET)

	return ast.ListLit{Elements: elements, Pos: at}
}

func (p *Parser) parseDictItem() ast.Expression {
	if p.l.PeekIsLiteral(types.OPERATOR, "**") {
		p.l.Lex()
		return ast.DoubleStarred{Value: p.parseBinary(0)}
	}

	key := p.parseTest()
	p.l.LexExpecting(types.COLON)
	return ast.Pair{Key: key, Value: p.parseTest()}
}

func (p *Parser) parseBrace(at types.Span) ast.Expression {
	if p.l.PeekIs(types.RBRACE) {
		p.l.Lex()
		return ast.DictLit{Pos: at}
	}

	var first ast.Expression
	isDict := false
	switch {
	case p.l.PeekIsLiteral(types.OPERATOR, "**"):
		first = p.parseDictItem()
		isDict = true
	default:
		first = p.parseNamedOrStar()
		if p.l.PeekIs(types.COLON) {
			p.l.Lex()
			first = ast.Pair{Key: first, Value: p.parseTest()}
			isDict = true
		}
	}

	if p.l.PeekIsLiteral(types.KEYWORD, "for", "async") {
		comp := p.parseComprehension("{", first, at)
		p.l.LexExpecting(types.RBRACE)
		return comp
	}

	elements := []ast.Expression{first}
	for p.l.PeekIs(types.COMMA) {
		p.l.Lex()
		if p.l.PeekIs(types.RBRACE) {
			break
		}
		if isDict {
			elements = append(elements, p.parseDictItem())
		} else {
			elements = append(elements, p.parseNamedOrStar())
		}
	}
	p.l.LexExpecting(types.RBRACE)

	if isDict {
		return ast.DictLit{Items: elements, Pos: at}
	}
	return ast.SetLit{Elements: elements, Pos: at}
}

func (p *Parser) parseComprehension(open string, element ast.Expression, at types.Span) ast.Expression {
	var clauses []ast.ComprehensionClause

	for p.l.PeekIsLiteral(types.KEYWORD, "for", "async") {
		c := ast.ComprehensionClause{}
		if p.l.PeekIsLiteral(types.KEYWORD, "async") {
			p.l.Lex()
			c.Async = true
		}
		p.expectKeyword("for")

		for {
			if p.l.PeekIsLiteral(types.OPERATOR, "*") {
				p.l.Lex()
				c.Targets = append(c.Targets, ast.Starred{Value: p.parseBinary(0)})
			} else {
				c.Targets = append(c.Targets, p.parseBinary(0))
			}
			if !p.l.PeekIs(types.COMMA) {
				break
			}
			p.l.Lex()
			if p.l.PeekIsLiteral(types.KEYWORD, "in") {
				break
			}
		}

		p.expectKeyword("in")
		c.Iter = p.parseOrTest()
		for p.l.PeekIsLiteral(types.KEYWORD, "if") {
			p.l.Lex()
			c.Conditions = append(c.Conditions, p.parseOrTest())
		}

		clauses = append(clauses, c)
	}

	return ast.Comprehension{
		Open:    open,
		Element: element,
		Clauses: clauses,
		Pos:     at,
	}
}
