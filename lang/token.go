package lang

import (
	"log/slog"
	"strconv"
)

// Position identifies a location in source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, counted in bytes
}

// IsValid reports whether p refers to a location in source text.
func (p Position) IsValid() bool { return p.Line > 0 }

// String returns "line:column".
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("offset", p.Offset),
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// TokenKind classifies a lexeme.
type TokenKind int

const (
	TokenEOF       TokenKind = iota // end of input
	TokenIdent                      // identifier
	TokenNumber                     // number
	TokenString                     // string
	TokenClosure                    // closure
	TokenLParen                     // (
	TokenRParen                     // )
	TokenLBrace                     // {
	TokenRBrace                     // }
	TokenLBracket                   // [
	TokenRBracket                   // ]
	TokenComma                      // ,
	TokenColon                      // :
	TokenSemicolon                  // ;
	TokenDot                        // .
	TokenHash                       // #
	TokenEquals                     // =
	TokenDollar                     // ${
)

var tokenKindName = [...]string{
	TokenEOF:       "end of input",
	TokenIdent:     "identifier",
	TokenNumber:    "number",
	TokenString:    "string",
	TokenClosure:   "closure",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenComma:     ",",
	TokenColon:     ":",
	TokenSemicolon: ";",
	TokenDot:       ".",
	TokenHash:      "#",
	TokenEquals:    "=",
	TokenDollar:    "${",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindName) {
		return tokenKindName[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// isPunct reports whether tokens of kind k always have the same text.
func (k TokenKind) isPunct() bool { return k >= TokenLParen }

// Token is a classified lexeme. Text holds the literal source for
// identifiers and numbers, the unescaped contents of strings, and the
// trimmed inner text of closures.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
	End  int // byte offset one past the last byte of the lexeme
}

// String describes the token for diagnostics.
func (t Token) String() string {
	switch {
	case t.Kind == TokenEOF:
		return t.Kind.String()
	case t.Kind.isPunct():
		return strconv.Quote(t.Kind.String())
	case t.Kind == TokenString:
		return "string " + strconv.Quote(t.Text)
	default:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	}
}
