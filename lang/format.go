package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
)

// Format writes the document in native syntax to the writer.
//
// With indent > 0 bodies are written one member per line, indented by
// indent spaces per level. With indent == 0 the whole document is written on
// one line with members separated by "; ". Top-level declarations are always
// separated by ';' so that a style rule can never be read back as a selector
// suffix of the component before it. Parsing the output yields a document
// equal to d.
func (d *Document) Format(_ context.Context, w io.Writer, indent int) error {
	pr := printer{indent: indent}

	count := 0
	for decl := range d.Decls() {
		if count > 0 {
			pr.WriteByte(';')

			if indent > 0 {
				pr.WriteString("\n\n")
			} else {
				pr.WriteByte(' ')
			}
		}

		switch decl := decl.(type) {
		case *Component:
			pr.component(decl, 0)
		case *StyleRule:
			pr.rule(decl)
		}

		count++
	}

	pr.WriteByte('\n')

	_, err := io.WriteString(w, pr.String())

	return err
}

// FormatJSON writes the document as JSON to the writer.
func (d *Document) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(d, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(d)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the document as YAML to the writer. Keys keep source
// order.
func (d *Document) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, d, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(yamlData)

	return err
}

// FormatAST writes an indented dump of the syntax tree, one node per line,
// with source positions.
func (d *Document) FormatAST(_ context.Context, w io.Writer, indent int) error {
	if indent < 1 {
		indent = 2
	}

	pr := printer{indent: indent}

	for decl := range d.Decls() {
		switch decl := decl.(type) {
		case *Component:
			pr.dumpComponent("", decl, 0)
		case *StyleRule:
			pr.line(0, "rule %s %s", decl.Selector, decl.Pos)

			for _, p := range decl.Properties {
				pr.dumpValue("property "+p.Key, p.Value, 1)
			}
		}
	}

	_, err := io.WriteString(w, pr.String())

	return err
}

type printer struct {
	strings.Builder

	indent int
}

func (pr *printer) newline(depth int) {
	if pr.indent > 0 {
		pr.WriteByte('\n')
		pr.WriteString(strings.Repeat(" ", depth*pr.indent))
	}
}

// body writes the members of a braced region. n is the member count and
// member writes the i-th member.
func (pr *printer) body(depth, n int, member func(i int)) {
	if n == 0 {
		pr.WriteString(" {}")

		return
	}

	pr.WriteString(" {")

	for i := range n {
		if pr.indent > 0 {
			pr.newline(depth + 1)
		} else if i > 0 {
			pr.WriteString("; ")
		} else {
			pr.WriteByte(' ')
		}

		member(i)
	}

	if pr.indent > 0 {
		pr.newline(depth)
	} else {
		pr.WriteByte(' ')
	}

	pr.WriteByte('}')
}

func (pr *printer) component(c *Component, depth int) {
	pr.WriteString(c.Type)
	pr.WriteByte('(')

	for i, e := range c.Params.Entries {
		if i > 0 {
			pr.WriteString(", ")
		}

		if e.Key != "" {
			pr.WriteString(e.Key)
			pr.WriteString(": ")
		}

		pr.value(e.Value, depth)
	}

	pr.WriteByte(')')

	if c.Selectors.HasID() {
		pr.WriteString(" #")
		pr.WriteString(c.Selectors.ID)
	}

	for _, class := range c.Selectors.Classes {
		pr.WriteString(" .")
		pr.WriteString(class)
	}

	np := len(c.Properties)
	if np+len(c.Children) == 0 {
		return
	}

	pr.body(depth, np+len(c.Children), func(i int) {
		if i < np {
			pr.property(c.Properties[i], depth+1, false)
		} else {
			pr.component(c.Children[i-np], depth+1)
		}
	})
}

func (pr *printer) rule(r *StyleRule) {
	pr.WriteString(r.Selector.String())
	pr.body(0, len(r.Properties), func(i int) {
		pr.property(r.Properties[i], 1, true)
	})
}

func (pr *printer) property(p Property, depth int, style bool) {
	pr.WriteString(p.Key)
	pr.WriteString(": ")

	if arr, ok := p.Value.(Array); ok && style && isRun(arr) {
		for i, v := range arr {
			if i > 0 {
				pr.WriteByte(' ')
			}

			pr.value(v, depth)
		}

		return
	}

	pr.value(p.Value, depth)
}

// isRun reports whether a style property array can be written as a
// space-separated run and read back as the same array.
func isRun(arr Array) bool {
	if len(arr) < 2 {
		return false
	}

	for _, v := range arr[1:] {
		if _, ok := v.(*Map); ok {
			return false
		}
	}

	return true
}

func (pr *printer) value(v Value, depth int) {
	switch x := v.(type) {
	case Ident:
		pr.WriteString(string(x))

	case Bool:
		pr.WriteString(strconv.FormatBool(bool(x)))

	case Number:
		pr.WriteString(x.String())

	case String:
		pr.WriteString(Quote(string(x)))

	case Closure:
		pr.WriteString("{{ ")
		pr.WriteString(string(x))
		pr.WriteString(" }}")

	case Relative:
		pr.WriteString(x.String())

	case Color:
		pr.WriteString(x.String())

	case Array:
		pr.WriteByte('[')

		for i, e := range x {
			if i > 0 {
				pr.WriteString(", ")
			}

			pr.value(e, depth)
		}

		pr.WriteByte(']')

	case *Map:
		pr.WriteByte('{')

		i := 0
		for k, e := range x.All() {
			if i > 0 {
				pr.WriteString(", ")
			}

			if IsIdent(k) {
				pr.WriteString(k)
			} else {
				pr.WriteString(Quote(k))
			}

			pr.WriteString(": ")
			pr.value(e, depth)
			i++
		}

		pr.WriteByte('}')

	case *Component:
		pr.component(x, depth)
	}
}

// Quote returns s as a double-quoted string literal that lexes back to s.
// Control characters are written as \u{X} escapes; other characters,
// including invalid UTF-8, are written as is.
func Quote(s string) string {
	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])

		switch {
		case r == '"':
			sb.WriteString(`\"`)
		case r == '\\':
			sb.WriteString(`\\`)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r < 0x20, r == 0x7f:
			fmt.Fprintf(&sb, `\u{%X}`, r)
		default:
			sb.WriteString(s[i : i+size])
		}

		i += size
	}

	sb.WriteByte('"')

	return sb.String()
}

func (pr *printer) line(depth int, format string, args ...any) {
	pr.WriteString(strings.Repeat(" ", depth*pr.indent))
	fmt.Fprintf(pr, format, args...)
	pr.WriteByte('\n')
}

func (pr *printer) dumpComponent(label string, c *Component, depth int) {
	if label != "" {
		label += " "
	}

	pr.line(depth, "%scomponent %s %s", label, c.Type, c.Pos)

	if s := c.Params.Shape(); s != ShapeEmpty {
		pr.line(depth+1, "params %s", s)

		i := 0

		for _, e := range c.Params.Entries {
			if e.Key != "" {
				pr.dumpValue("param "+e.Key, e.Value, depth+2)

				continue
			}

			pr.dumpValue("param "+strconv.Itoa(i), e.Value, depth+2)
			i++
		}
	}

	if c.Selectors.HasID() {
		pr.line(depth+1, "id %s", c.Selectors.ID)
	}

	for _, class := range c.Selectors.Classes {
		pr.line(depth+1, "class %s", class)
	}

	for _, p := range c.Properties {
		pr.dumpValue("property "+p.Key, p.Value, depth+1)
	}

	for _, child := range c.Children {
		pr.dumpComponent("", child, depth+1)
	}
}

func (pr *printer) dumpValue(label string, v Value, depth int) {
	switch x := v.(type) {
	case Array:
		pr.line(depth, "%s array %d", label, len(x))

		for i, e := range x {
			pr.dumpValue(strconv.Itoa(i), e, depth+1)
		}

	case *Map:
		pr.line(depth, "%s map %d", label, x.Len())

		for k, e := range x.All() {
			pr.dumpValue(Quote(k), e, depth+1)
		}

	case *Component:
		pr.dumpComponent(label, x, depth)

	case String:
		pr.line(depth, "%s string %s", label, Quote(string(x)))

	case Closure:
		pr.line(depth, "%s closure %s", label, strconv.Quote(string(x)))

	case Ident, Bool, Number, Relative, Color:
		pr.line(depth, "%s %s %v", label, v.Kind(), v)

	default:
		pr.line(depth, "%s <nil>", label)
	}
}
