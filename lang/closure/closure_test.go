package closure

import (
	"errors"
	"testing"

	"github.com/expr-lang/expr"

	"github.com/ardnew/skui/lang"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		code    lang.Closure
		wantErr bool
	}{
		{"len(value) > 0", false},
		{"x > 1 && y != nil", false},
		{`name + " (" + string(count) + ")"`, false},
		{"count > 0", false},
		{"len + 1", false},
		{"filter == nil", false},
		{"all && any", false},
		{"a +", true},
		{")(", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			_, err := Compile(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("Compile(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestCompile_Env(t *testing.T) {
	env := map[string]any{"count": 0}

	if _, err := Compile("count + 1", expr.Env(env)); err != nil {
		t.Errorf("Compile with env: %v", err)
	}

	if _, err := Compile(`count + "x"`, expr.Env(env)); err == nil {
		t.Error("Compile accepted a type mismatch against the env")
	}
}

func TestCheck(t *testing.T) {
	src := "App(a: {{ a + }}, b: {{ )( }}, c: {{ }}, d: {{ x > 1 }})\n" +
		".x { f: {{ ok }}; g: [1, {{ 1 + }}] }"

	doc, err := lang.Parse(t.Context(), src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	diags := Check(doc)

	wantLines := []int{1, 1, 2}
	wantCols := []int{5, 19, 19}

	if len(diags) != len(wantLines) {
		t.Fatalf("got %d diagnostics, want %d: %v", len(diags), len(wantLines), diags)
	}

	for i, d := range diags {
		if !errors.Is(d, ErrCompile) {
			t.Errorf("diagnostic %d = %v, want ErrCompile", i, d)
		}

		if d.Unwrap() == nil {
			t.Errorf("diagnostic %d has no compiler error", i)
		}

		if p := d.Pos(); p.Line != wantLines[i] || p.Column != wantCols[i] {
			t.Errorf("diagnostic %d at %s, want %d:%d", i, p, wantLines[i], wantCols[i])
		}
	}
}

func TestCheck_Clean(t *testing.T) {
	doc, err := lang.Parse(t.Context(), "App(on: {{ count > 0 }}) { Label({{}}) }")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if diags := Check(doc); len(diags) != 0 {
		t.Errorf("Check = %v, want none", diags)
	}
}
