package lang

import "strconv"

// braceState tells parseBlock what a '{' opens. It is decided by the caller
// at the point the brace is met and never re-derived.
type braceState int

const (
	expectingComponentBody braceState = iota // properties and child components
	expectingStyleBody                       // properties only
	expectingMapValue                        // key : value entries
)

func (s braceState) String() string {
	switch s {
	case expectingComponentBody:
		return "component body"
	case expectingStyleBody:
		return "style body"
	case expectingMapValue:
		return "map"
	default:
		return "braceState(" + strconv.Itoa(int(s)) + ")"
	}
}

// block collects the members of one braced region. Only the fields
// relevant to the region's braceState are populated.
type block struct {
	props    Properties
	children []*Component
	entries  *Map
}

// parseDecl parses one top-level declaration.
//
//	Ident "(" ...  component instantiation
//	Ident "{"      type style rule
//	"#" Ident "{"  id style rule
//	"." Ident "{"  class style rule
func (p *parser) parseDecl() (Decl, *Error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenHash, TokenDot:
		return p.styleRule()

	case TokenIdent:
		switch p.peekN(1).Kind {
		case TokenLParen:
			return p.component()
		case TokenLBrace:
			return p.styleRule()
		}

		return nil, ErrMissingSuffix.At(tok.Pos).
			Detailf("%q must be followed by \"(\" or \"{\", found %s", tok.Text, p.peekN(1))
	}

	return nil, unexpected(tok, "component or style rule")
}

func (p *parser) component() (Decl, *Error) {
	c, err := p.parseComponent()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (p *parser) styleRule() (Decl, *Error) {
	r, err := p.parseStyleRule()
	if err != nil {
		return nil, err
	}

	return r, nil
}

// parseComponent parses Ident "(" params ")" selectors? body?.
func (p *parser) parseComponent() (*Component, *Error) {
	name := p.next()

	if err := p.enter(name.Pos); err != nil {
		return nil, err
	}
	defer p.leave()

	c := &Component{Type: name.Text, Pos: name.Pos}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	c.Params = params

	if err := p.parseSelectors(&c.Selectors); err != nil {
		return nil, err
	}

	if p.at(TokenLBrace) {
		b, err := p.parseBlock(expectingComponentBody)
		if err != nil {
			return nil, err
		}

		c.Properties, c.Children = b.props, b.children
	}

	return c, nil
}

// parseParams parses a parenthesised, comma-separated parameter list.
// An entry is named when it starts with Ident ":" or Ident "=". Mixed lists
// are kept as written.
func (p *parser) parseParams() (Parameters, *Error) {
	open, err := p.expect(TokenLParen)
	if err != nil {
		return Parameters{}, err
	}

	var params Parameters

	for {
		if p.accept(TokenRParen) {
			return params, nil
		}

		param := Param{Pos: p.peek().Pos}

		if p.at(TokenIdent) {
			if k := p.peekN(1).Kind; k == TokenColon || k == TokenEquals {
				param.Key = p.next().Text
				p.next()
			}
		}

		v, err := p.parseValue()
		if err != nil {
			return Parameters{}, err
		}

		param.Value = v
		params.Entries = append(params.Entries, param)

		switch tok := p.peek(); tok.Kind {
		case TokenComma:
			p.next()
		case TokenRParen:
		default:
			return Parameters{}, unexpected(tok, `"," or ")"`).Relate(open.Pos)
		}
	}
}

// parseSelectors parses any number of "#id" and ".class" suffixes in any
// order. The sigil and its name must be adjacent.
func (p *parser) parseSelectors(set *SelectorSet) *Error {
	var idPos Position

	for {
		sigil := p.peek()
		if sigil.Kind != TokenHash && sigil.Kind != TokenDot {
			return nil
		}

		p.next()

		name, err := p.selectorName(sigil)
		if err != nil {
			return err
		}

		if sigil.Kind == TokenDot {
			set.AddClass(name.Text)

			continue
		}

		if set.HasID() {
			return ErrDuplicateID.At(sigil.Pos).Relate(idPos).
				Detailf("#%s after #%s", name.Text, set.ID)
		}

		set.ID, idPos = name.Text, sigil.Pos
	}
}

// selectorName consumes the identifier following a '#' or '.' sigil.
func (p *parser) selectorName(sigil Token) (Token, *Error) {
	name := p.peek()

	if name.Kind != TokenIdent {
		return Token{}, unexpected(name, "name after "+strconv.Quote(sigil.Text))
	}

	if name.Pos.Offset != sigil.End {
		return Token{}, ErrDetachedSelector.At(sigil.Pos).
			Detailf("space between %q and %q", sigil.Text, name.Text)
	}

	return p.next(), nil
}

// parseStyleRule parses selector "{" properties "}".
func (p *parser) parseStyleRule() (*StyleRule, *Error) {
	first := p.peek()
	rule := &StyleRule{Pos: first.Pos}

	switch first.Kind {
	case TokenHash, TokenDot:
		p.next()

		name, err := p.selectorName(first)
		if err != nil {
			return nil, err
		}

		kind := SelectorClass
		if first.Kind == TokenHash {
			kind = SelectorID
		}

		rule.Selector = Selector{Kind: kind, Name: name.Text}

	default:
		rule.Selector = Selector{Kind: SelectorType, Name: p.next().Text}
	}

	if !p.at(TokenLBrace) {
		return nil, ErrMissingSuffix.At(p.peek().Pos).
			Detailf("style rule %s must be followed by \"{\", found %s",
				rule.Selector, p.peek())
	}

	b, err := p.parseBlock(expectingStyleBody)
	if err != nil {
		return nil, err
	}

	rule.Properties = b.props

	return rule, nil
}

// parseBlock parses a braced region according to state.
func (p *parser) parseBlock(state braceState) (block, *Error) {
	open := p.next()

	var b block

	if state == expectingMapValue {
		if err := p.enter(open.Pos); err != nil {
			return block{}, err
		}
		defer p.leave()

		b.entries = NewMap()

		return b, p.parseMapEntries(open, b.entries)
	}

	for {
		tok := p.peek()

		switch tok.Kind {
		case TokenRBrace:
			p.next()

			return b, nil

		case TokenSemicolon, TokenComma:
			p.next()

			continue

		case TokenEOF:
			return block{}, ErrUnexpectedEOF.At(tok.Pos).
				Detailf("unclosed %s", state).Relate(open.Pos)
		}

		var err *Error

		switch state {
		case expectingComponentBody:
			err = p.parseComponentMember(&b)
		case expectingStyleBody:
			err = p.parseStyleMember(&b)
		}

		if err != nil {
			return block{}, err
		}
	}
}

// parseComponentMember parses one property or child component.
func (p *parser) parseComponentMember(b *block) *Error {
	tok := p.peek()

	if tok.Kind == TokenIdent {
		switch p.peekN(1).Kind {
		case TokenColon:
			p.next()
			p.next()

			v, err := p.parseValue()
			if err != nil {
				return err
			}

			b.props = append(b.props, Property{Key: tok.Text, Value: v, Pos: tok.Pos})

			return nil

		case TokenLParen:
			c, err := p.parseComponent()
			if err != nil {
				return err
			}

			b.children = append(b.children, c)

			return nil
		}
	}

	return unexpected(tok, "property or child component")
}

// parseStyleMember parses one property of a style rule. The value may be a
// space-separated run, collected into an Array when it has more than one
// element.
func (p *parser) parseStyleMember(b *block) *Error {
	tok := p.peek()

	if tok.Kind != TokenIdent || p.peekN(1).Kind != TokenColon {
		return unexpected(tok, "property")
	}

	p.next()
	p.next()

	v, err := p.parseValue()
	if err != nil {
		return err
	}

	var run Array

	for p.continuesRun() {
		w, err := p.parseValue()
		if err != nil {
			return err
		}

		if run == nil {
			run = Array{v}
		}

		run = append(run, w)
	}

	if run != nil {
		v = run
	}

	b.props = append(b.props, Property{Key: tok.Text, Value: v, Pos: tok.Pos})

	return nil
}

// continuesRun reports whether the next token extends a multi-value style
// property rather than ending it.
func (p *parser) continuesRun() bool {
	switch tok := p.peek(); tok.Kind {
	case TokenRBrace, TokenSemicolon, TokenComma, TokenEOF, TokenLBrace:
		return false

	case TokenIdent:
		return p.peekN(1).Kind != TokenColon
	}

	return true
}

// parseMapEntries parses comma-separated key (":" | "=") value entries up to
// and including the closing brace. Keys are identifiers or strings.
func (p *parser) parseMapEntries(open Token, m *Map) *Error {
	for {
		key := p.peek()

		switch key.Kind {
		case TokenRBrace:
			p.next()

			return nil

		case TokenIdent, TokenString:
			p.next()

		default:
			return malformed(key, "map key or \"}\"").Relate(open.Pos)
		}

		if k := p.peek().Kind; k != TokenColon && k != TokenEquals {
			return malformed(p.peek(), `":" or "="`).Relate(open.Pos)
		}

		p.next()

		v, err := p.parseValue()
		if err != nil {
			return err
		}

		m.Set(key.Text, v)

		switch tok := p.peek(); tok.Kind {
		case TokenComma:
			p.next()
		case TokenRBrace:
		default:
			return malformed(tok, `"," or "}"`).Relate(open.Pos)
		}
	}
}

// resync moves the cursor past a failed declaration that began at token
// index start. It scans from start, tracking bracket depth, and stops at the
// first token at depth zero, at or after the error, that can begin a new
// declaration. It reports false if the input ends inside an open bracket.
func (p *parser) resync(start int) bool {
	failed := p.pos
	depth := 0

	for i := start; i < len(p.toks); i++ {
		tok := p.toks[i]

		if depth == 0 && i > start && i >= failed && startsDecl(p.toks[i-1], tok) {
			p.pos = i

			return true
		}

		switch tok.Kind {
		case TokenLParen, TokenLBrace, TokenLBracket, TokenDollar:
			depth++

		case TokenRParen, TokenRBrace, TokenRBracket:
			if depth > 0 {
				depth--
			}

		case TokenEOF:
			p.pos = i

			return depth == 0
		}
	}

	return false
}

// startsDecl reports whether tok, preceded by prev, can begin a top-level
// declaration. Selector sigils after ')' and names after a sigil belong to
// the preceding component.
func startsDecl(prev, tok Token) bool {
	switch tok.Kind {
	case TokenIdent:
		switch prev.Kind {
		case TokenHash, TokenDot, TokenColon, TokenEquals:
			return false
		}

		return true

	case TokenHash, TokenDot:
		return prev.Kind != TokenRParen && prev.Kind != TokenIdent
	}

	return false
}
