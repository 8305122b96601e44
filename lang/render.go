package lang

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// RenderOption configures [Render].
type RenderOption func(*renderer)

// WithColor enables or disables ANSI colour in rendered diagnostics,
// overriding terminal detection. Colour is off by default.
func WithColor(enable bool) RenderOption {
	return func(r *renderer) {
		r.color = enable
	}
}

type renderer struct {
	color bool

	heading, location, caret, note *color.Color
}

func (r *renderer) paint(c *color.Color) *color.Color {
	if r.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c
}

// Render writes each diagnostic followed by the offending source line and a
// caret under its column. A diagnostic with a related position gets a second
// snippet marked as a note. name labels locations and may be empty.
//
//	layout.skui:2:3: DeclParseError[UnexpectedToken]: unexpected token: ...
//	   2 |   padding 10
//	     |   ^
func Render(w io.Writer, name, src string, diags Diagnostics, opts ...RenderOption) error {
	r := &renderer{}
	for _, opt := range opts {
		opt(r)
	}

	r.heading = r.paint(color.New(color.FgRed, color.Bold))
	r.location = r.paint(color.New(color.Bold))
	r.caret = r.paint(color.New(color.FgGreen, color.Bold))
	r.note = r.paint(color.New(color.FgCyan))

	lines := strings.Split(src, "\n")

	var sb strings.Builder

	for _, d := range diags {
		sb.WriteString(r.location.Sprint(locate(name, d.Pos())))
		sb.WriteString(": ")

		tag := d.Stage().String()
		if d.Code() != CodeNone {
			tag += "[" + d.Code().String() + "]"
		}

		sb.WriteString(r.heading.Sprint(tag))
		sb.WriteString(": ")
		sb.WriteString(d.Message())

		if err := d.Unwrap(); err != nil {
			sb.WriteString(": ")
			sb.WriteString(err.Error())
		}

		sb.WriteByte('\n')
		r.snippet(&sb, lines, d.Pos())

		if rel, ok := d.Related(); ok {
			sb.WriteString(r.location.Sprint(locate(name, rel)))
			sb.WriteString(": ")
			sb.WriteString(r.note.Sprint("note"))
			sb.WriteString(": related position\n")
			r.snippet(&sb, lines, rel)
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

func locate(name string, pos Position) string {
	if name == "" {
		return pos.String()
	}

	return name + ":" + pos.String()
}

// snippet writes the source line at pos and a caret line beneath it. Tabs in
// the line prefix are kept so the caret lines up in a terminal.
func (r *renderer) snippet(sb *strings.Builder, lines []string, pos Position) {
	if !pos.IsValid() || pos.Line > len(lines) {
		return
	}

	line := strings.TrimSuffix(lines[pos.Line-1], "\r")

	fmt.Fprintf(sb, "%4d | %s\n", pos.Line, line)

	col := min(max(pos.Column-1, 0), len(line))

	var pad strings.Builder

	for _, c := range line[:col] {
		if c == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	fmt.Fprintf(sb, "     | %s%s\n", pad.String(), r.caret.Sprint("^"))
}
