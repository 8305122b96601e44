package lang

import (
	"bytes"
	"context"
	"testing"
)

var fuzzSeeds = []string{
	"",
	"App()",
	formatSource,
	"App(1, n: 2, 3); B(); .c {}",
	`App(a: [], b: {}, c: {"x y": 1}, d: ${0.name}, e: -1.5em)`,
	"X { p: {a: 1} [1] 2; q: F(1) G() {x: 1} }",
	"App(v: {{ a + \"}}\" }})",
	"App() #a #b",
	"A(:)\nB(1 2)\nC();\n#x\nD()",
	"App() {",
	"\"unterminated",
	"App(${0.})",
}

func FuzzLexer(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		toks, err := Tokens([]byte(src))
		if err != nil {
			if diags := AsDiagnostics(err); len(diags) != 1 || !diags.Fatal() {
				t.Fatalf("lex error is not a single fatal diagnostic: %v", err)
			}

			return
		}

		if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
			t.Fatalf("token stream does not end with EOF: %v", toks)
		}

		for i := 1; i < len(toks); i++ {
			if toks[i].Pos.Offset < toks[i-1].End {
				t.Fatalf("token %d at %d overlaps previous ending at %d",
					i, toks[i].Pos.Offset, toks[i-1].End)
			}
		}
	})
}

func FuzzParse(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		ctx := context.Background()

		doc, err := Parse(ctx, src)
		if err != nil {
			if doc == nil && !AsDiagnostics(err).Fatal() {
				t.Fatalf("nil document without a fatal diagnostic: %v", err)
			}

			return
		}

		_ = Validate(doc)

		var buf bytes.Buffer
		if err := doc.Format(ctx, &buf, 0); err != nil {
			t.Fatalf("Format: %v", err)
		}

		again, err := Parse(ctx, buf.String())
		if err != nil {
			t.Fatalf("formatted output does not parse: %v\n%s", err, buf.String())
		}

		if !doc.Equal(again) {
			t.Fatalf("round trip changed the document\nsource: %q\nformatted: %q", src, buf.String())
		}
	})
}
