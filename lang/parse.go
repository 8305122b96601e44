package lang

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Parse lexes and parses src into a Document.
//
// The returned error, if any, is a [Diagnostics] value holding every lexical,
// value and declaration diagnostic in detection order. If a diagnostic is
// fatal the Document is nil; otherwise a partial Document built from the
// declarations that parsed cleanly is returned alongside the diagnostics.
// If ctx is cancelled between top-level declarations, Parse returns nil and
// the context's error.
//
// Parse does not run the structural checks of [Validate]; use [Check] for
// both.
func Parse(ctx context.Context, src string, opts ...Option) (*Document, error) {
	return parse(ctx, src, makeOptions(opts...))
}

// Check parses src and, unless parsing failed fatally, validates the result.
// Parse and validation diagnostics are returned together as [Diagnostics].
func Check(ctx context.Context, src string, opts ...Option) (*Document, error) {
	return check(ctx, src, makeOptions(opts...))
}

func check(ctx context.Context, src string, o options) (*Document, error) {
	doc, err := parse(ctx, src, o)
	if doc == nil {
		return nil, err
	}

	diags := slices.Clone(AsDiagnostics(err))

	if v := Validate(doc); len(v) > 0 {
		o.logger.TraceContext(ctx, "validate", slog.Int("diagnostics", len(v)))

		diags = append(diags, v...)
	}

	if len(diags) == 0 {
		return doc, nil
	}

	return doc, diags
}

func parse(ctx context.Context, src string, o options) (*Document, error) {
	o.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(src)),
		slog.Int("max_depth", o.maxDepth),
	)

	toks, err := Tokens([]byte(src))
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			o.logger.TraceContext(ctx, "lex failed", slog.Any("error", e))

			return nil, Diagnostics{e}
		}

		return nil, err
	}

	p := &parser{toks: toks, maxDepth: o.maxDepth}

	var (
		decls []Decl
		diags Diagnostics
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for p.accept(TokenSemicolon) {
		}

		if p.at(TokenEOF) {
			break
		}

		start := p.pos

		d, derr := p.parseDecl()
		if derr == nil {
			o.logger.TraceContext(ctx, "decl",
				slog.String("kind", declKind(d)),
				slog.Any("pos", d.Position()),
			)

			decls = append(decls, d)

			continue
		}

		if !p.resync(start) {
			derr = derr.asFatal()
		}

		o.logger.TraceContext(ctx, "decl failed",
			slog.Any("error", derr),
			slog.Int("resume", p.pos),
		)

		diags = append(diags, derr)

		if derr.Fatal() {
			return nil, diags
		}
	}

	doc := Assemble(decls)

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("components", len(doc.Components)),
		slog.Int("rules", len(doc.Rules)),
		slog.Int("diagnostics", len(diags)),
	)

	if len(diags) > 0 {
		return doc, diags
	}

	return doc, nil
}

func declKind(d Decl) string {
	switch d.(type) {
	case *Component:
		return "component"
	case *StyleRule:
		return "rule"
	default:
		return "unknown"
	}
}

// parser is a cursor over a fully lexed token slice. The slice always ends
// with a TokenEOF token, which the cursor never moves past.
type parser struct {
	toks     []Token
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) peek() Token { return p.toks[p.pos] }

// peekN returns the token n positions ahead, or the EOF token.
func (p *parser) peekN(n int) Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) at(kind TokenKind) bool { return p.peek().Kind == kind }

func (p *parser) accept(kind TokenKind) bool {
	if p.at(kind) {
		p.next()

		return true
	}

	return false
}

func (p *parser) expect(kind TokenKind) (Token, *Error) {
	if p.at(kind) {
		return p.next(), nil
	}

	return Token{}, unexpected(p.peek(), strconv.Quote(kind.String()))
}

// unexpected reports tok where want was required.
func unexpected(tok Token, want string) *Error {
	if tok.Kind == TokenEOF {
		return ErrUnexpectedEOF.At(tok.Pos).Detailf("want %s", want)
	}

	return ErrUnexpectedToken.At(tok.Pos).Detailf("found %s, want %s", tok, want)
}

// malformed reports tok where want was required inside a value. Running out
// of input is still an unexpected end of file.
func malformed(tok Token, want string) *Error {
	if tok.Kind == TokenEOF {
		return unexpected(tok, want)
	}

	return ErrExpectedValue.At(tok.Pos).Detailf("found %s, want %s", tok, want)
}

// enter descends one nesting level. Every successful enter is paired with
// a leave.
func (p *parser) enter(pos Position) *Error {
	if p.depth >= p.maxDepth {
		return ErrMaxDepth.At(pos).Detailf("limit is %d", p.maxDepth)
	}

	p.depth++

	return nil
}

func (p *parser) leave() { p.depth-- }

// parseValue parses exactly one value. A '{' in value position always opens
// a map.
func (p *parser) parseValue() (Value, *Error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenLBracket:
		return p.parseArray()

	case TokenLBrace:
		b, err := p.parseBlock(expectingMapValue)
		if err != nil {
			return nil, err
		}

		return b.entries, nil

	case TokenDollar:
		return p.parseRelative()

	case TokenIdent:
		if p.peekN(1).Kind == TokenLParen {
			c, err := p.parseComponent()
			if err != nil {
				return nil, err
			}

			return c, nil
		}

		p.next()

		switch tok.Text {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}

		return Ident(tok.Text), nil

	case TokenString:
		p.next()

		return String(tok.Text), nil

	case TokenNumber:
		p.next()

		return parseNumber(tok)

	case TokenClosure:
		p.next()

		return Closure(tok.Text), nil

	case TokenHash:
		return p.parseColor()
	}

	return nil, ErrExpectedValue.At(tok.Pos).Detailf("found %s", tok)
}

func (p *parser) parseArray() (Value, *Error) {
	open := p.next()

	if err := p.enter(open.Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	arr := Array{}

	for {
		if p.accept(TokenRBracket) {
			return arr, nil
		}

		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		arr = append(arr, v)

		switch tok := p.peek(); tok.Kind {
		case TokenComma:
			p.next()
		case TokenRBracket:
		default:
			return nil, malformed(tok, `"," or "]"`).Relate(open.Pos)
		}
	}
}

// parseRelative parses "${" key (sep key)* "}" where sep is '.' or ','.
// Both separators mean the same thing, so only the keys are kept.
func (p *parser) parseRelative() (Value, *Error) {
	open := p.next()

	rel := Relative{Pos: open.Pos}

	for {
		tok := p.peek()

		switch tok.Kind {
		case TokenIdent:
			p.next()

			rel.Keys = append(rel.Keys, NameKey(tok.Text))

		case TokenNumber:
			p.next()

			keys, err := parseIndexKeys(tok)
			if err != nil {
				return nil, err
			}

			rel.Keys = append(rel.Keys, keys...)

		case TokenRBrace:
			return nil, ErrInvalidKey.At(tok.Pos).Detailf("empty placeholder").Relate(open.Pos)

		default:
			return nil, ErrInvalidKey.At(tok.Pos).
				Detailf("found %s, want index or name", tok).Relate(open.Pos)
		}

		switch tok := p.peek(); tok.Kind {
		case TokenDot, TokenComma:
			p.next()

		case TokenRBrace:
			p.next()

			return rel, nil

		default:
			return nil, malformed(tok, `".", "," or "}"`).Relate(open.Pos)
		}
	}
}

// parseColor parses '#' followed by 3, 4, 6 or 8 hex digits. The digits
// may lex as several touching tokens ("#1e90ff" is "1e" then "90ff"), which
// are joined.
func (p *parser) parseColor() (Value, *Error) {
	hash := p.next()

	var (
		digits strings.Builder
		end    = hash.End
	)

	for {
		tok := p.peek()
		if tok.Pos.Offset != end || (tok.Kind != TokenIdent && tok.Kind != TokenNumber) {
			break
		}

		p.next()

		digits.WriteString(tok.Text)
		end = tok.End
	}

	hex := digits.String()

	if hex == "" {
		return nil, ErrInvalidColor.At(hash.Pos).
			Detailf("found %s, want hex digits after \"#\"", p.peek())
	}

	if !isHexColor(hex) {
		return nil, ErrInvalidColor.At(hash.Pos).
			Detailf("#%s is not 3, 4, 6 or 8 hex digits", hex)
	}

	return Color(hex), nil
}

func isHexColor(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}

	for i := range len(s) {
		if !isHexDigit(s[i]) {
			return false
		}
	}

	return true
}

// parseIndexKeys converts a number token to index keys. A decimal such as
// "0.1" lexes as one token and yields two keys.
func parseIndexKeys(tok Token) ([]ValueKey, *Error) {
	parts := strings.Split(tok.Text, ".")
	keys := make([]ValueKey, 0, len(parts))

	for _, s := range parts {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, ErrInvalidKey.At(tok.Pos).
				Detailf("%q is not a non-negative integer", tok.Text)
		}

		keys = append(keys, IndexKey(n))
	}

	return keys, nil
}

// parseNumber splits a number token into its numeric part and unit suffix.
func parseNumber(tok Token) (Value, *Error) {
	text := tok.Text

	i := len(text)
	for i > 0 && (isLetter(text[i-1]) || text[i-1] == '%') {
		i--
	}

	num, unit := text[:i], text[i:]

	if strings.Contains(num, ".") {
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return nil, ErrInvalidNumber.At(tok.Pos).Detailf("%q", text).Wrap(err)
		}

		return FloatNumber(f).WithUnit(unit), nil
	}

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return nil, ErrInvalidNumber.At(tok.Pos).Detailf("%q", text).Wrap(err)
	}

	return IntNumber(n).WithUnit(unit), nil
}
