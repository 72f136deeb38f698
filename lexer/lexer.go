package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/brodycritchlow/serpentine/errors"
	"github.com/brodycritchlow/serpentine/types"
)

const eof = -1

type pending struct {
	tok types.Token
	lit string
}

type Lexer struct {
	pos          types.Position
	reader       *bufio.Reader
	peeked       *types.Token
	peekedString string
	queue        []pending
	last         types.Token

	// runes read so far, one slice per source line
	text [][]rune

	// indentation stack of the enclosing blocks, outermost first
	indents []int
	// bracket nesting; newlines inside brackets are joined
	depth        int
	lineStart    bool
	lineHasToken bool
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:       types.Position{Line: 1, Column: 0, Filename: filename},
		reader:    bufio.NewReader(reader),
		indents:   []int{0},
		lineStart: true,
	}
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

// here is the position the next rune will occupy.
func (l *Lexer) here() types.Position {
	p := l.pos
	p.Column++
	return p
}

func (l *Lexer) kinded(t types.TokenKind) types.Token {
	return types.Token{
		Location: types.SingleCharSpan(l.pos),
		Kind:     t,
	}
}

func (l *Lexer) spanning(t types.TokenKind, from types.Position) types.Token {
	return types.Token{
		Location: types.Span{From: from, To: l.pos},
		Kind:     t,
	}
}

func (l *Lexer) peekRune() rune {
	byt, err := l.reader.Peek(utf8.UTFMax)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		panic(err)
	}
	if len(byt) == 0 {
		return eof
	}
	r, _ := utf8.DecodeRune(byt)
	return r
}

func (l *Lexer) peekString(n int) string {
	byt, err := l.reader.Peek(n)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		panic(err)
	}
	return string(byt)
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return eof
		}
		panic(err)
	}
	for len(l.text) < l.pos.Line {
		l.text = append(l.text, nil)
	}
	l.text[l.pos.Line-1] = append(l.text[l.pos.Line-1], r)
	l.pos.Column++
	return r
}

// Text returns the source covered by span. Both ends are inclusive and must
// already have been read.
func (l *Lexer) Text(span types.Span) string {
	var b strings.Builder
	for line := span.From.Line; line <= span.To.Line && line <= len(l.text); line++ {
		runes := l.text[line-1]
		from, to := 0, len(runes)
		if line == span.From.Line {
			from = span.From.Column - 1
		}
		if line == span.To.Line && span.To.Column < to {
			to = span.To.Column
		}
		if from < 0 || from > to {
			continue
		}
		b.WriteString(string(runes[from:to]))
	}
	return b.String()
}

// Last is the most recent token returned by Lex. Peeked tokens do not count.
func (l *Lexer) Last() types.Token {
	return l.last
}

func (l *Lexer) Peek() (types.Token, string) {
	if l.peeked != nil {
		return *l.peeked, l.peekedString
	}

	tok, str := l.lex()
	l.peeked = &tok
	l.peekedString = str

	return tok, str
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token, _ := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

// PeekIsLiteral matches both the kind and the literal text, for keywords
// and operators that share a kind.
func (l *Lexer) PeekIsLiteral(k types.TokenKind, lits ...string) bool {
	token, lit := l.Peek()
	if token.Kind != k {
		return false
	}
	for _, want := range lits {
		if lit == want {
			return true
		}
	}

	return false
}

func (l *Lexer) PeekIsWithRet(k ...types.TokenKind) (bool, types.Token, string) {
	token, lit := l.Peek()
	for _, kind := range k {
		if token.Kind == kind {
			return true, token, lit
		}
	}

	return false, types.Token{}, ""
}

func (l *Lexer) LexExpecting(k ...types.TokenKind) (types.Token, string) {
	token, lit := l.Lex()
	for _, kind := range k {
		if token.Kind == kind {
			return token, lit
		}
	}

	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      token.Kind,
		Location: token.Location,
	})
}

func (l *Lexer) Lex() (types.Token, string) {
	var tok types.Token
	var lit string
	if l.peeked != nil {
		tok, lit = *l.peeked, l.peekedString
		l.peeked = nil
	} else {
		tok, lit = l.lex()
	}
	l.last = tok
	return tok, lit
}

func (l *Lexer) lex() (types.Token, string) {
	if len(l.queue) > 0 {
		p := l.queue[0]
		l.queue = l.queue[1:]
		return p.tok, p.lit
	}

	for {
		if l.lineStart && l.depth == 0 {
			l.lineStart = false
			if tok, ok := l.indentation(); ok {
				return tok, ""
			}
		}

		switch r := l.peekRune(); r {
		case eof:
			return l.finish()
		case '\n':
			at := l.here()
			l.next()
			l.newline()
			if l.depth > 0 {
				continue
			}
			if !l.lineHasToken {
				l.lineStart = true
				continue
			}
			l.lineHasToken = false
			l.lineStart = true
			return types.Token{Kind: types.NEWLINE, Location: types.SingleCharSpan(at)}, "\n"
		case ' ', '\t', '\f', '\r':
			l.next()
			continue
		case '#':
			for r := l.peekRune(); r != '\n' && r != eof; r = l.peekRune() {
				l.next()
			}
			continue
		case '\\':
			l.next()
			if l.peekRune() == '\r' {
				l.next()
			}
			if l.peekRune() != '\n' {
				panic(errors.IllegalCharacter{Char: '\\', Location: types.SingleCharSpan(l.pos)})
			}
			l.next()
			l.newline()
			continue
		}

		l.lineHasToken = true
		return l.lexToken()
	}
}

// indentation measures the leading whitespace of a logical line and turns
// a change of level into INDENT or DEDENT tokens.
func (l *Lexer) indentation() (types.Token, bool) {
	width := 0
measure:
	for {
		switch l.peekRune() {
		case ' ':
			width++
		case '\t':
			width = (width/8 + 1) * 8
		case '\f':
			width = 0
		default:
			break measure
		}
		l.next()
	}

	switch l.peekRune() {
	case '\n', '\r', '#', eof:
		return types.Token{}, false
	}

	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		return l.kinded(types.INDENT), true
	case width < top:
		var dedents []pending
		for width < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			dedents = append(dedents, pending{tok: l.kinded(types.DEDENT)})
		}
		if width != l.indents[len(l.indents)-1] {
			panic(errors.InconsistentDedent{Location: types.SingleCharSpan(l.here())})
		}
		l.queue = append(l.queue, dedents[1:]...)
		return dedents[0].tok, true
	}

	return types.Token{}, false
}

func (l *Lexer) finish() (types.Token, string) {
	if l.depth > 0 {
		return l.kinded(types.EOF), ""
	}
	if l.lineHasToken {
		l.lineHasToken = false
		return l.kinded(types.NEWLINE), ""
	}
	if len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		return l.kinded(types.DEDENT), ""
	}
	return l.kinded(types.EOF), ""
}

func firstChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return firstChar(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

var keywords = map[string]types.TokenKind{
	"True":     types.TRUE,
	"False":    types.FALSE,
	"None":     types.NONE,
	"and":      types.KEYWORD,
	"as":       types.KEYWORD,
	"assert":   types.KEYWORD,
	"async":    types.KEYWORD,
	"await":    types.KEYWORD,
	"break":    types.KEYWORD,
	"class":    types.KEYWORD,
	"continue": types.KEYWORD,
	"def":      types.KEYWORD,
	"del":      types.KEYWORD,
	"elif":     types.KEYWORD,
	"else":     types.KEYWORD,
	"except":   types.KEYWORD,
	"finally":  types.KEYWORD,
	"for":      types.KEYWORD,
	"from":     types.KEYWORD,
	"global":   types.KEYWORD,
	"if":       types.KEYWORD,
	"import":   types.KEYWORD,
	"in":       types.KEYWORD,
	"is":       types.KEYWORD,
	"lambda":   types.KEYWORD,
	"nonlocal": types.KEYWORD,
	"not":      types.KEYWORD,
	"or":       types.KEYWORD,
	"pass":     types.KEYWORD,
	"raise":    types.KEYWORD,
	"return":   types.KEYWORD,
	"try":      types.KEYWORD,
	"while":    types.KEYWORD,
	"with":     types.KEYWORD,
	"yield":    types.KEYWORD,
}

var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true,
	"br": true, "rb": true, "fr": true, "rf": true,
}

var operators = map[string]types.TokenKind{
	"+": types.OPERATOR, "-": types.OPERATOR, "*": types.OPERATOR, "/": types.OPERATOR,
	"%": types.OPERATOR, "@": types.OPERATOR, "&": types.OPERATOR, "|": types.OPERATOR,
	"^": types.OPERATOR, "~": types.OPERATOR, "<": types.OPERATOR, ">": types.OPERATOR,
	"**": types.OPERATOR, "//": types.OPERATOR, "<<": types.OPERATOR, ">>": types.OPERATOR,
	"<=": types.OPERATOR, ">=": types.OPERATOR, "==": types.OPERATOR, "!=": types.OPERATOR,
	":=": types.OPERATOR,
	"+=": types.AUGASSIGN, "-=": types.AUGASSIGN, "*=": types.AUGASSIGN, "/=": types.AUGASSIGN,
	"%=": types.AUGASSIGN, "@=": types.AUGASSIGN, "&=": types.AUGASSIGN, "|=": types.AUGASSIGN,
	"^=": types.AUGASSIGN, "**=": types.AUGASSIGN, "//=": types.AUGASSIGN,
	"<<=": types.AUGASSIGN, ">>=": types.AUGASSIGN,
	"->": types.ARROW,
	":":  types.COLON,
	"=":  types.EQUALS,
}

func (l *Lexer) lexToken() (types.Token, string) {
	r := l.peekRune()
	from := l.here()

	switch {
	case firstChar(r):
		return l.lexName()
	case isDigit(r):
		return l.lexNumber()
	case r == '.':
		if rest := l.peekString(2); len(rest) == 2 && isDigit(rune(rest[1])) {
			return l.lexNumber()
		}
		if l.peekString(3) == "..." {
			l.next()
			l.next()
			l.next()
			return l.spanning(types.ELLIPSIS, from), "..."
		}
		l.next()
		return l.kinded(types.PERIOD), "."
	case r == '"' || r == '\'':
		return l.lexString(from, "")
	}

	l.next()

	data := map[rune]types.TokenKind{
		'(': types.LPAREN,
		')': types.RPAREN,
		'[': types.LBRACKET,
		']': types.RBRACKET,
		'{': types.LBRACE,
		'}': types.RBRACE,
		',': types.COMMA,
		';': types.SEMICOLON,
	}

	if kind, ok := data[r]; ok {
		switch kind {
		case types.LPAREN, types.LBRACKET, types.LBRACE:
			l.depth++
		case types.RPAREN, types.RBRACKET, types.RBRACE:
			if l.depth > 0 {
				l.depth--
			}
		}
		return l.kinded(kind), string(r)
	}

	op := string(r)
	for {
		nxt := l.peekRune()
		if nxt == eof {
			break
		}
		if _, ok := operators[op+string(nxt)]; !ok {
			break
		}
		l.next()
		op += string(nxt)
	}

	kind, ok := operators[op]
	if !ok {
		panic(errors.IllegalCharacter{Char: r, Location: types.Span{From: from, To: l.pos}})
	}
	return l.spanning(kind, from), op
}

func (l *Lexer) lexName() (types.Token, string) {
	from := l.here()
	var b strings.Builder

	for r := l.peekRune(); r != eof && otherChar(r); r = l.peekRune() {
		b.WriteRune(l.next())
	}
	lit := b.String()

	if stringPrefixes[strings.ToLower(lit)] {
		if q := l.peekRune(); q == '"' || q == '\'' {
			return l.lexString(from, lit)
		}
	}

	if kind, ok := keywords[lit]; ok {
		return l.spanning(kind, from), lit
	}

	return l.spanning(types.IDENT, from), lit
}

func (l *Lexer) digits(b *strings.Builder, accept func(rune) bool) {
	for r := l.peekRune(); r != eof && (r == '_' || accept(r)); r = l.peekRune() {
		b.WriteRune(l.next())
	}
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *Lexer) lexNumber() (types.Token, string) {
	from := l.here()
	var b strings.Builder
	kind := types.INT

	if l.peekRune() == '0' {
		if base := l.peekString(2); len(base) == 2 && strings.ContainsRune("xXoObB", rune(base[1])) {
			b.WriteRune(l.next())
			b.WriteRune(l.next())
			l.digits(&b, isHexDigit)
			lit := b.String()
			return l.spanning(types.INT, from), lit
		}
	}

	l.digits(&b, isDigit)
	if l.peekRune() == '.' {
		kind = types.FLOAT
		b.WriteRune(l.next())
		l.digits(&b, isDigit)
	}
	if r := l.peekRune(); r == 'e' || r == 'E' {
		kind = types.FLOAT
		b.WriteRune(l.next())
		if s := l.peekRune(); s == '+' || s == '-' {
			b.WriteRune(l.next())
		}
		if !isDigit(l.peekRune()) {
			panic(errors.InvalidNumber{Literal: b.String(), Location: types.Span{From: from, To: l.pos}})
		}
		l.digits(&b, isDigit)
	}
	if r := l.peekRune(); r == 'j' || r == 'J' {
		kind = types.IMAGINARY
		b.WriteRune(l.next())
	}

	lit := b.String()
	if kind == types.INT && leadingZero(lit) {
		panic(errors.InvalidNumber{Literal: lit, Location: types.Span{From: from, To: l.pos}})
	}
	return l.spanning(kind, from), lit
}

// leadingZero reports decimal literals like 0123, which Python rejects.
func leadingZero(lit string) bool {
	if len(lit) < 2 || lit[0] != '0' {
		return false
	}
	return strings.Trim(lit, "0_") != ""
}

func (l *Lexer) lexString(from types.Position, prefix string) (types.Token, string) {
	lower := strings.ToLower(prefix)
	raw := strings.Contains(lower, "r")
	kind := types.STRING
	switch {
	case strings.Contains(lower, "f"):
		kind = types.FSTRING
	case strings.Contains(lower, "b"):
		kind = types.BYTES
	}

	quote := l.next()
	closer := string([]rune{quote, quote})
	triple := false
	if l.peekString(2) == closer {
		l.next()
		l.next()
		triple = true
	}

	unterminated := func() {
		panic(errors.UnterminatedString{TripleQuoted: triple, Location: types.Span{From: from, To: l.pos}})
	}

	var b strings.Builder
	for {
		r := l.peekRune()
		if r == eof || (r == '\n' && !triple) {
			unterminated()
		}
		l.next()

		switch r {
		case '\n':
			l.newline()
			b.WriteRune(r)
		case quote:
			if !triple {
				return l.spanning(kind, from), b.String()
			}
			if l.peekString(2) == closer {
				l.next()
				l.next()
				return l.spanning(kind, from), b.String()
			}
			b.WriteRune(r)
		case '\\':
			esc := l.peekRune()
			if esc == eof {
				unterminated()
			}
			l.next()
			if esc == '\n' {
				l.newline()
			}
			if raw {
				b.WriteRune('\\')
				b.WriteRune(esc)
				continue
			}
			l.escape(&b, esc, kind == types.BYTES)
		default:
			b.WriteRune(r)
		}
	}
}

func (l *Lexer) fixedDigits(max int, accept func(rune) bool) (string, bool) {
	var b strings.Builder
	for i := 0; i < max; i++ {
		r := l.peekRune()
		if r == eof || !accept(r) {
			break
		}
		b.WriteRune(l.next())
	}
	return b.String(), b.Len() > 0
}

func isOctalDigit(r rune) bool {
	return r >= '0' && r <= '7'
}

// escape decodes the sequence following a backslash. Sequences Python
// does not know are kept verbatim, backslash included.
func (l *Lexer) escape(b *strings.Builder, esc rune, bytes bool) {
	simple := map[rune]rune{
		'\\': '\\', '\'': '\'', '"': '"',
		'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
	}
	if r, ok := simple[esc]; ok {
		b.WriteRune(r)
		return
	}

	switch {
	case esc == '\n':
	case isOctalDigit(esc):
		digits, _ := l.fixedDigits(2, isOctalDigit)
		b.WriteRune(parseRune(string(esc)+digits, 8))
	case esc == 'x':
		digits, ok := l.fixedDigits(2, isHexDigit)
		if !ok || len(digits) != 2 {
			b.WriteString(`\x` + digits)
			return
		}
		b.WriteRune(parseRune(digits, 16))
	case (esc == 'u' || esc == 'U') && !bytes:
		size := 4
		if esc == 'U' {
			size = 8
		}
		digits, _ := l.fixedDigits(size, isHexDigit)
		if len(digits) != size {
			b.WriteString(`\` + string(esc) + digits)
			return
		}
		b.WriteRune(parseRune(digits, 16))
	default:
		b.WriteRune('\\')
		b.WriteRune(esc)
	}
}

func parseRune(digits string, base int) rune {
	var v rune
	for _, d := range digits {
		var n rune
		switch {
		case isDigit(d):
			n = d - '0'
		case d >= 'a' && d <= 'f':
			n = d - 'a' + 10
		case d >= 'A' && d <= 'F':
			n = d - 'A' + 10
		}
		v = v*rune(base) + n
	}
	if !utf8.ValidRune(v) {
		return utf8.RuneError
	}
	return v
}

type testToken struct {
	t types.Token
	s string
}

func (l *Lexer) lexToEOF() (ret []testToken) {
	t, s := l.Lex()
	for t.Kind != types.EOF {
		ret = append(ret, testToken{
			t: t,
			s: s,
		})
		t, s = l.Lex()
	}
	return
}
