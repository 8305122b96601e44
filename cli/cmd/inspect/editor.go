package inspect

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/skui/lang"
	"github.com/ardnew/skui/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-check-retry loop.
// It formats the current document to a temp file, opens the user's editor,
// and checks the result. On diagnostics the user is prompted to re-edit;
// declining exits the inspector.
type editCommand struct {
	doc     *lang.Document
	ctxFunc func() context.Context
	newDoc  *lang.Document
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. If the user declines to re-edit, it returns
// [ErrEditDeclined]. An emptied file cancels the edit and leaves newDoc nil.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.doc.Format(ctx, &buf, 2); err != nil {
		return fmt.Errorf("format document: %w", err)
	}

	content := buf.String()

	f, err := os.CreateTemp(os.TempDir(), "skui-inspect-*.skui")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		doc, err := lang.Check(ctx, string(data), lang.WithLogger(c.logger))
		c.logger.TraceContext(ctx, "editor check attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", err == nil),
		)

		if err == nil {
			c.newDoc = doc

			return nil
		}

		fmt.Fprintln(c.stderr)

		if diags := lang.AsDiagnostics(err); diags != nil {
			_ = lang.Render(c.stderr, "", string(data), diags.Sorted())
		} else {
			fmt.Fprintf(c.stderr, "error: %s\n", err)
		}

		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// runEditor launches $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
