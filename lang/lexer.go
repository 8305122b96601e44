package lang

import (
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer produces tokens from source text on demand.
//
// A Lexer can only be restarted from the beginning with [Lexer.Reset]; it
// never seeks. After the first error every call to [Lexer.Next] returns the
// same error.
type Lexer struct {
	src  []byte
	off  int
	line int
	col  int
	err  *Error
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src []byte) *Lexer {
	l := &Lexer{src: src}
	l.Reset()

	return l
}

// Reset rewinds the lexer to the start of its input.
func (l *Lexer) Reset() {
	l.off, l.line, l.col, l.err = 0, 1, 1, nil
}

// All returns a lazy sequence of tokens starting from the beginning of the
// input. The sequence ends after the EOF token or after the first error,
// which is yielded with a zero Token.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l.Reset()

		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)

				return
			}

			if !yield(tok, nil) || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// Tokens lexes all of src, including the trailing EOF token.
func Tokens(src []byte) ([]Token, error) {
	toks := make([]Token, 0, len(src)/4+1)

	for tok, err := range NewLexer(src).All() {
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

// Next returns the next token. At the end of input it returns a TokenEOF
// token; it keeps returning TokenEOF if called again.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	tok, err := l.scan()
	if err != nil {
		l.err = err

		return Token{}, err
	}

	return tok, nil
}

func (l *Lexer) scan() (Token, *Error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}

	pos := l.position()

	if l.eof() {
		return Token{Kind: TokenEOF, Pos: pos, End: l.off}, nil
	}

	c := l.src[l.off]

	switch {
	case isIdentStart(c):
		return l.scanIdent(pos), nil

	case isDigit(c), c == '-' && isDigit(l.peekAt(1)):
		return l.scanNumber(pos), nil

	case c == '"':
		return l.scanString(pos)

	case c == '{' && l.peekAt(1) == '{':
		return l.scanClosure(pos)

	case c == '$' && l.peekAt(1) == '{':
		l.advance(2)

		return l.token(TokenDollar, "${", pos), nil
	}

	if kind, ok := punct[c]; ok {
		l.advance(1)

		return l.token(kind, string(c), pos), nil
	}

	r, _ := utf8.DecodeRune(l.src[l.off:])

	return Token{}, ErrIllegalCharacter.At(pos).Detailf("%q", r)
}

var punct = map[byte]TokenKind{
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	',': TokenComma,
	':': TokenColon,
	';': TokenSemicolon,
	'.': TokenDot,
	'#': TokenHash,
	'=': TokenEquals,
}

func (l *Lexer) token(kind TokenKind, text string, pos Position) Token {
	return Token{Kind: kind, Text: text, Pos: pos, End: l.off}
}

func (l *Lexer) eof() bool { return l.off >= len(l.src) }

func (l *Lexer) peekAt(n int) byte {
	if l.off+n < len(l.src) {
		return l.src[l.off+n]
	}

	return 0
}

func (l *Lexer) position() Position {
	return Position{Offset: l.off, Line: l.line, Column: l.col}
}

// advance moves forward n bytes, tracking line and column.
func (l *Lexer) advance(n int) {
	for ; n > 0 && l.off < len(l.src); n-- {
		if l.src[l.off] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}

		l.off++
	}
}

func (l *Lexer) skipSpaceAndComments() *Error {
	for !l.eof() {
		c := l.src[l.off]

		switch {
		case c == ' ', c == '\t', c == '\n', c == '\r', c == '\f', c == '\v':
			l.advance(1)

		case c == '/' && l.peekAt(1) == '/':
			for !l.eof() && l.src[l.off] != '\n' {
				l.advance(1)
			}

		case c == '/' && l.peekAt(1) == '*':
			pos := l.position()
			l.advance(2)

			for {
				if l.eof() {
					return ErrUnterminatedComment.At(pos)
				}

				if l.src[l.off] == '*' && l.peekAt(1) == '/' {
					l.advance(2)

					break
				}

				l.advance(1)
			}

		default:
			return nil
		}
	}

	return nil
}

func (l *Lexer) scanIdent(pos Position) Token {
	start := l.off
	l.advance(1)

	for !l.eof() && isIdentPart(l.src[l.off]) {
		l.advance(1)
	}

	return l.token(TokenIdent, string(l.src[start:l.off]), pos)
}

// scanNumber reads -?digits(.digits)? followed by an optional unit suffix,
// either a run of letters or a single '%'.
func (l *Lexer) scanNumber(pos Position) Token {
	start := l.off

	if l.src[l.off] == '-' {
		l.advance(1)
	}

	l.skipDigits()

	if l.peekAt(0) == '.' && isDigit(l.peekAt(1)) {
		l.advance(1)
		l.skipDigits()
	}

	switch c := l.peekAt(0); {
	case c == '%':
		l.advance(1)
	case isLetter(c):
		for !l.eof() && isLetter(l.src[l.off]) {
			l.advance(1)
		}
	}

	return l.token(TokenNumber, string(l.src[start:l.off]), pos)
}

func (l *Lexer) skipDigits() {
	for !l.eof() && isDigit(l.src[l.off]) {
		l.advance(1)
	}
}

func (l *Lexer) scanString(pos Position) (Token, *Error) {
	l.advance(1) // opening quote

	var sb strings.Builder

	for {
		if l.eof() {
			return Token{}, ErrUnterminatedString.At(pos)
		}

		c := l.src[l.off]

		switch c {
		case '"':
			l.advance(1)

			return l.token(TokenString, sb.String(), pos), nil

		case '\\':
			if err := l.scanEscape(&sb); err != nil {
				return Token{}, err
			}

		default:
			sb.WriteByte(c)
			l.advance(1)
		}
	}
}

var simpleEscape = map[byte]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'\'': '\'',
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
}

// scanEscape decodes one escape sequence starting at a backslash.
// Supported: \" \\ \/ \' \n \t \r \0 \uXXXX \u{X...}.
func (l *Lexer) scanEscape(sb *strings.Builder) *Error {
	pos := l.position()
	l.advance(1) // backslash

	if l.eof() {
		return ErrUnterminatedString.At(pos)
	}

	c := l.src[l.off]

	if r, ok := simpleEscape[c]; ok {
		sb.WriteByte(r)
		l.advance(1)

		return nil
	}

	if c != 'u' {
		return ErrInvalidEscape.At(pos).Detailf(`\%c`, c)
	}

	l.advance(1)

	var hex string

	if l.peekAt(0) == '{' {
		end := l.off + 1
		for end < len(l.src) && isHexDigit(l.src[end]) {
			end++
		}

		if end >= len(l.src) || l.src[end] != '}' || end == l.off+1 {
			return ErrInvalidEscape.At(pos).Detailf(`malformed \u{...}`)
		}

		hex = string(l.src[l.off+1 : end])
		l.advance(end + 1 - l.off)
	} else {
		end := l.off
		for end < len(l.src) && end < l.off+4 && isHexDigit(l.src[end]) {
			end++
		}

		if end-l.off != 4 {
			return ErrInvalidEscape.At(pos).Detailf(`\u requires 4 hex digits`)
		}

		hex = string(l.src[l.off:end])
		l.advance(4)
	}

	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(n)) {
		return ErrInvalidEscape.At(pos).Detailf(`invalid code point U+%s`, hex)
	}

	sb.WriteRune(rune(n))

	return nil
}

// scanClosure captures the raw text between "{{" and the matching "}}".
// Nested braces and quoted strings inside the closure are skipped so that
// they cannot terminate it early.
func (l *Lexer) scanClosure(pos Position) (Token, *Error) {
	l.advance(2)

	start, depth := l.off, 0

	for {
		if l.eof() {
			return Token{}, ErrUnterminatedClosure.At(pos)
		}

		switch c := l.src[l.off]; {
		case c == '{':
			depth++
			l.advance(1)

		case c == '}' && depth > 0:
			depth--
			l.advance(1)

		case c == '}' && l.peekAt(1) == '}':
			text := strings.TrimSpace(string(l.src[start:l.off]))
			l.advance(2)

			return l.token(TokenClosure, text, pos), nil

		case c == '"', c == '\'', c == '`':
			l.skipQuoted(c)

		default:
			l.advance(1)
		}
	}
}

// skipQuoted advances past a quoted run delimited by q. Backslash escapes
// are honoured except inside backquotes. An unterminated run consumes the
// rest of the input.
func (l *Lexer) skipQuoted(q byte) {
	l.advance(1)

	for !l.eof() {
		c := l.src[l.off]

		switch {
		case c == q:
			l.advance(1)

			return

		case c == '\\' && q != '`':
			l.advance(2)

		default:
			l.advance(1)
		}
	}
}

func isDigit(c byte) bool  { return '0' <= c && c <= '9' }
func isLetter(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }

func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isIdentStart(c byte) bool { return isLetter(c) || c == '_' }

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) || c == '-' }

// IsIdent reports whether s lexes as a single identifier.
func IsIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}

	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}

	return true
}
