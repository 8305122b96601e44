package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ardnew/skui/cli/cmd/inspect"
	"github.com/ardnew/skui/lang"
	"github.com/ardnew/skui/log"
)

// Inspect opens an interactive inspector on a document.
type Inspect struct {
	History  string `default:"${historyFile}" help:"History file (empty to disable)." type:"path"`
	MaxDepth int    `default:"${maxDepth}"    help:"Maximum nesting depth."           name:"max-depth"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the inspect command. A document with fatal diagnostics is
// reported and not inspected; other diagnostics are printed before the
// inspector starts.
func (c *Inspect) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdoutFrom(ctx)

	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return ErrNotTerminal
	}

	srcs, err := readSources(ctx, []string{c.Source})
	if err != nil {
		return err
	}

	src := srcs[0]

	doc, err := lang.Check(ctx, string(src.Data),
		lang.WithMaxDepth(c.MaxDepth),
		lang.WithLogger(log.Default().With(slog.String("source", src.Name))),
	)

	diags := lang.AsDiagnostics(err)
	if err != nil && diags == nil {
		return err
	}

	if len(diags) > 0 {
		err = lang.Render(out, src.Name, string(src.Data), diags.Sorted(),
			lang.WithColor(useColor(colorAuto, out)))
		if err != nil {
			return err
		}
	}

	if doc == nil || diags.Fatal() {
		return ErrDiagnostics.With(
			slog.String("source", src.Name),
			slog.Int("diagnostics", len(diags)),
		)
	}

	return inspect.Run(ctx, inspect.Config{
		Name:        src.Name,
		Doc:         doc,
		HistoryPath: c.History,
		InputTTY:    c.Source == stdinSource,
		Logger:      log.Default().With(slog.String("command", "inspect")),
	})
}
