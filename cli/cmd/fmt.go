package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ardnew/skui/lang"
	"github.com/ardnew/skui/log"
)

// Fmt parses a source and writes it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native skui syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree dump."`
}

// Native formats input as native skui syntax.
type Native struct {
	Indent int  `default:"2" help:"Indent width; 0 writes one line per declaration." short:"i"`
	Diff   bool `help:"Print a line diff against the source instead."               short:"d"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, doc, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	if !f.Diff {
		return formatted(doc.Format(ctx, stdoutFrom(ctx), f.Indent), "native")
	}

	var buf bytes.Buffer
	if err := doc.Format(ctx, &buf, f.Indent); err != nil {
		return formatted(err, "native")
	}

	changed, err := writeLineDiff(stdoutFrom(ctx), src.Name, string(src.Data), buf.String())

	log.DebugContext(ctx, "diff source",
		slog.String("source", src.Name),
		slog.Bool("changed", changed),
	)

	return err
}

// JSON formats input as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, doc, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return formatted(doc.FormatJSON(ctx, stdoutFrom(ctx), j.Indent), "json")
}

// YAML formats input as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output; 0 selects flow style" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, doc, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return formatted(doc.FormatYAML(ctx, stdoutFrom(ctx), y.Indent), "yaml")
}

// AST dumps the syntax tree with source positions.
type AST struct {
	Indent int `default:"2" help:"Indent width for each tree level" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, doc, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return formatted(doc.FormatAST(ctx, stdoutFrom(ctx), a.Indent), "ast")
}

// parseSource reads and parses the named source. Any diagnostic, fatal or
// not, is an error: formatting a partial document would drop input.
func parseSource(ctx context.Context, name, format string) (Source, *lang.Document, error) {
	srcs, err := readSources(ctx, []string{name})
	if err != nil {
		return Source{}, nil, err
	}

	src := srcs[0]

	doc, err := lang.ParseReader(ctx, bytes.NewReader(src.Data),
		lang.WithLogger(log.Default().With(slog.String("source", src.Name))))
	if err != nil {
		return src, nil, ErrFormat.Wrap(err).With(
			slog.String("source", src.Name),
			slog.String("format", format),
		)
	}

	return src, doc, nil
}

func formatted(err error, format string) error {
	if err == nil {
		return nil
	}

	return ErrFormat.Wrap(err).With(slog.String("format", format))
}

// writeLineDiff writes a line diff from before to after, each line prefixed
// with '-', '+' or ' '. Nothing is written when the texts are equal.
func writeLineDiff(w io.Writer, name, before, after string) (bool, error) {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := false

	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			changed = true

			break
		}
	}

	if !changed {
		return false, nil
	}

	var sb strings.Builder

	sb.WriteString("--- " + name + "\n")
	sb.WriteString("+++ " + name + " (formatted)\n")

	for _, d := range diffs {
		mark := " "

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			mark = "-"
		case diffmatchpatch.DiffInsert:
			mark = "+"
		case diffmatchpatch.DiffEqual:
		}

		for line := range strings.Lines(d.Text) {
			sb.WriteString(mark)
			sb.WriteString(line)

			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}

	_, err := io.WriteString(w, sb.String())

	return true, err
}
