package cmd

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/ardnew/skui/lang"
	"github.com/ardnew/skui/lang/closure"
	"github.com/ardnew/skui/log"
)

// Check parses and validates sources and prints their diagnostics.
type Check struct {
	Closures bool   `help:"Also compile closures as expressions."                  short:"c"`
	Color    string `default:"auto"          enum:"auto,always,never"              help:"Colour diagnostics (${enum})."`
	MaxDepth int    `default:"${maxDepth}"   help:"Maximum nesting depth."          name:"max-depth"`
	Quiet    bool   `help:"Only set the exit status."                              short:"q"`

	Sources []string `arg:"" help:"Source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the check command. It fails with [ErrDiagnostics] when any
// source has at least one diagnostic.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	names := c.Sources
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	srcs, err := readSources(ctx, names)
	if err != nil {
		return err
	}

	out := stdoutFrom(ctx)
	color := useColor(c.Color, out)

	var total, failed int

	for _, src := range srcs {
		diags, err := c.check(ctx, src)
		if err != nil {
			return err
		}

		log.DebugContext(ctx, "checked source",
			slog.String("source", src.Name),
			slog.Int("diagnostics", len(diags)),
		)

		if len(diags) == 0 {
			continue
		}

		total += len(diags)
		failed++

		if c.Quiet {
			continue
		}

		err = lang.Render(out, src.Name, string(src.Data), diags.Sorted(),
			lang.WithColor(color))
		if err != nil {
			return err
		}
	}

	if total > 0 {
		return ErrDiagnostics.With(
			slog.Int("diagnostics", total),
			slog.Int("sources", failed),
		)
	}

	return nil
}

// check returns every diagnostic for src. Validation and the closure check
// are skipped when parsing failed fatally. The error is non-nil only when
// src could not be parsed at all, e.g. on cancellation.
func (c *Check) check(ctx context.Context, src Source) (lang.Diagnostics, error) {
	doc, err := lang.ParseReader(ctx, bytes.NewReader(src.Data),
		lang.WithMaxDepth(c.MaxDepth),
		lang.WithLogger(log.Default().With(slog.String("source", src.Name))),
	)

	diags := lang.AsDiagnostics(err)
	if err != nil && diags == nil {
		return nil, err
	}

	if doc == nil || diags.Fatal() {
		return diags, nil
	}

	diags = append(diags, lang.Validate(doc)...)

	if c.Closures {
		diags = append(diags, closure.Check(doc)...)
	}

	return diags, nil
}
