// Package closure compiles the code payloads of skui closures with
// expr-lang, so that syntax errors in {{ ... }} blocks can be reported
// before a toolkit adapter ever sees them.
//
// The core language treats closures as opaque text. This package is one
// possible interpretation of that text and is used by "skui check
// --closures".
package closure

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/skui/lang"
)

// ErrCompile reports a closure that does not compile.
var ErrCompile = lang.NewError("closure does not compile")

// Compile compiles c. Names a closure refers to are resolved at run time by
// the toolkit, so undefined variables are allowed and expr's builtin
// functions are disabled: a closure reading a variable named count or len
// must not be checked against the builtin of that name. opts may add an
// environment or functions to tighten the check.
func Compile(c lang.Closure, opts ...expr.Option) (*vm.Program, error) {
	opts = append([]expr.Option{
		expr.AllowUndefinedVariables(),
		expr.DisableAllBuiltins(),
	}, opts...)

	return expr.Compile(string(c), opts...)
}

// Check compiles every closure in doc and returns a diagnostic for each
// one that fails, positioned at the parameter or property holding it.
// Empty closures are skipped.
func Check(doc *lang.Document, opts ...expr.Option) lang.Diagnostics {
	var diags lang.Diagnostics

	for v, pos := range doc.Values() {
		c, ok := v.(lang.Closure)
		if !ok || c == "" {
			continue
		}

		if _, err := Compile(c, opts...); err != nil {
			diags = append(diags, ErrCompile.At(pos).Wrap(err).
				With(slog.String("source", string(c))))
		}
	}

	return diags
}
