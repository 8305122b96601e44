package lang

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}

	return out
}

func TestTokens_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{
			name:  "empty",
			input: "",
			want:  []TokenKind{TokenEOF},
		},
		{
			name:  "component with selectors",
			input: `Flex(1.0, true) #main .highlight { padding: 10px }`,
			want: []TokenKind{
				TokenIdent, TokenLParen, TokenNumber, TokenComma, TokenIdent, TokenRParen,
				TokenHash, TokenIdent, TokenDot, TokenIdent,
				TokenLBrace, TokenIdent, TokenColon, TokenNumber, TokenRBrace,
				TokenEOF,
			},
		},
		{
			name:  "placeholder",
			input: `${0.title}`,
			want: []TokenKind{
				TokenDollar, TokenNumber, TokenDot, TokenIdent, TokenRBrace, TokenEOF,
			},
		},
		{
			name:  "map and array punctuation",
			input: `{a = [1, 2]; b: c}`,
			want: []TokenKind{
				TokenLBrace, TokenIdent, TokenEquals, TokenLBracket, TokenNumber,
				TokenComma, TokenNumber, TokenRBracket, TokenSemicolon, TokenIdent,
				TokenColon, TokenIdent, TokenRBrace, TokenEOF,
			},
		},
		{
			name:  "comments are skipped",
			input: "a // line\n/* block\n */ b",
			want:  []TokenKind{TokenIdent, TokenIdent, TokenEOF},
		},
		{
			name:  "closure",
			input: `x: {{ a + b }}`,
			want:  []TokenKind{TokenIdent, TokenColon, TokenClosure, TokenEOF},
		},
		{
			name:  "number then dot then ident",
			input: `1.x`,
			want:  []TokenKind{TokenNumber, TokenDot, TokenIdent, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokens([]byte(tt.input))
			if err != nil {
				t.Fatalf("Tokens: %v", err)
			}

			if diff := cmp.Diff(tt.want, kinds(toks)); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokens_Text(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  TokenKind
		want  string
	}{
		{"hyphenated identifier", "background-color", TokenIdent, "background-color"},
		{"underscore identifier", "_private9", TokenIdent, "_private9"},
		{"integer", "42", TokenNumber, "42"},
		{"negative", "-5", TokenNumber, "-5"},
		{"decimal with unit", "1.5em", TokenNumber, "1.5em"},
		{"percent", "50%", TokenNumber, "50%"},
		{"string escapes", `"a\"b\\c\n\t"`, TokenString, "a\"b\\c\n\t"},
		{"unicode escapes", `"A\u{1F600}"`, TokenString, "A\U0001F600"},
		{"nul escape", `"\0"`, TokenString, "\x00"},
		{"raw utf-8", `"héllo"`, TokenString, "héllo"},
		{"closure trimmed", "{{  count + 1  }}", TokenClosure, "count + 1"},
		{"closure with nested braces", "{{ f({a: 1}) }}", TokenClosure, "f({a: 1})"},
		{"closure with quoted braces", `{{ s == "}}" }}`, TokenClosure, `s == "}}"`},
		{"closure with backquote", "{{ `}}` }}", TokenClosure, "`}}`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokens([]byte(tt.input))
			if err != nil {
				t.Fatalf("Tokens: %v", err)
			}

			if len(toks) != 2 {
				t.Fatalf("got %d tokens, want 2: %v", len(toks), toks)
			}

			if toks[0].Kind != tt.kind {
				t.Errorf("kind = %v, want %v", toks[0].Kind, tt.kind)
			}

			if toks[0].Text != tt.want {
				t.Errorf("text = %q, want %q", toks[0].Text, tt.want)
			}
		})
	}
}

func TestTokens_Positions(t *testing.T) {
	toks, err := Tokens([]byte("a\n  bc(\td)"))
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}

	want := []struct {
		pos Position
		end int
	}{
		{Position{Offset: 0, Line: 1, Column: 1}, 1},
		{Position{Offset: 4, Line: 2, Column: 3}, 6},
		{Position{Offset: 6, Line: 2, Column: 5}, 7},
		{Position{Offset: 8, Line: 2, Column: 7}, 9},
		{Position{Offset: 9, Line: 2, Column: 8}, 10},
		{Position{Offset: 10, Line: 2, Column: 9}, 10},
	}

	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}

	for i, w := range want {
		if toks[i].Pos != w.pos {
			t.Errorf("token %d pos = %+v, want %+v", i, toks[i].Pos, w.pos)
		}

		if toks[i].End != w.end {
			t.Errorf("token %d end = %d, want %d", i, toks[i].End, w.end)
		}
	}
}

func TestTokens_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Error
		pos   Position
	}{
		{"unterminated string", `x("abc`, ErrUnterminatedString, Position{2, 1, 3}},
		{"unterminated escape", `"abc\`, ErrUnterminatedString, Position{4, 1, 5}},
		{"unterminated comment", "a /* b", ErrUnterminatedComment, Position{2, 1, 3}},
		{"unterminated closure", "{{ a", ErrUnterminatedClosure, Position{0, 1, 1}},
		{"invalid escape", `"\q"`, ErrInvalidEscape, Position{1, 1, 2}},
		{"short unicode escape", `"\u12"`, ErrInvalidEscape, Position{1, 1, 2}},
		{"empty braced escape", `"\u{}"`, ErrInvalidEscape, Position{1, 1, 2}},
		{"code point out of range", `"\u{110000}"`, ErrInvalidEscape, Position{1, 1, 2}},
		{"illegal character", "a\n @", ErrIllegalCharacter, Position{3, 2, 2}},
		{"lone dollar", "$x", ErrIllegalCharacter, Position{0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokens([]byte(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			if e.Pos() != tt.pos {
				t.Errorf("pos = %+v, want %+v", e.Pos(), tt.pos)
			}

			if e.Stage() != StageLex || !e.Fatal() {
				t.Errorf("stage = %v fatal = %v, want fatal LexError", e.Stage(), e.Fatal())
			}
		})
	}
}

func TestLexer_NextAfterEnd(t *testing.T) {
	l := NewLexer([]byte("a"))

	for range 3 {
		if _, err := l.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}

	tok, err := l.Next()
	if err != nil || tok.Kind != TokenEOF {
		t.Errorf("Next after end = %v, %v; want EOF", tok, err)
	}
}

func TestLexer_StickyError(t *testing.T) {
	l := NewLexer([]byte("a @ b"))

	if tok, err := l.Next(); err != nil || tok.Text != "a" {
		t.Fatalf("first Next = %v, %v", tok, err)
	}

	_, first := l.Next()
	_, second := l.Next()

	if !errors.Is(first, ErrIllegalCharacter) || first != second {
		t.Errorf("errors = %v, %v; want the same IllegalCharacter error", first, second)
	}

	l.Reset()

	if tok, err := l.Next(); err != nil || tok.Text != "a" {
		t.Errorf("Next after Reset = %v, %v", tok, err)
	}
}

func TestLexer_AllStopsEarly(t *testing.T) {
	l := NewLexer([]byte("a b c d"))

	var got []string

	for tok, err := range l.All() {
		if err != nil {
			t.Fatalf("All: %v", err)
		}

		got = append(got, tok.Text)
		if len(got) == 2 {
			break
		}
	}

	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}

	// All restarts from the beginning.
	n := 0
	for range l.All() {
		n++
	}

	if n != 5 {
		t.Errorf("second pass yielded %d tokens, want 5", n)
	}
}

func TestIsIdent(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"a", true},
		{"font-size", true},
		{"_x9", true},
		{"", false},
		{"9a", false},
		{"-a", false},
		{"a b", false},
		{"a.b", false},
	}

	for _, tt := range tests {
		if got := IsIdent(tt.s); got != tt.want {
			t.Errorf("IsIdent(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestToken_String(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: TokenEOF}, "end of input"},
		{Token{Kind: TokenColon, Text: ":"}, `":"`},
		{Token{Kind: TokenIdent, Text: "padding"}, `identifier "padding"`},
		{Token{Kind: TokenString, Text: "OK"}, `string "OK"`},
		{Token{Kind: TokenNumber, Text: "10px"}, `number "10px"`},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}
