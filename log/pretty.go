package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the colours used by the pretty handlers. Each colour is
// enabled or disabled on its own, independent of color.NoColor.
type palette struct {
	key, str, num, yes, no, dur, when, null *color.Color

	trace, debug, info, warn, err *color.Color
}

func newPalette(enable bool) *palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}

		return c
	}

	return &palette{
		key:   mk(color.FgHiBlack),
		str:   mk(color.FgCyan),
		num:   mk(color.FgYellow),
		yes:   mk(color.FgGreen),
		no:    mk(color.FgRed),
		dur:   mk(color.FgMagenta),
		when:  mk(color.FgBlue),
		null:  mk(color.FgHiBlack),
		trace: mk(color.FgHiBlack, color.Bold),
		debug: mk(color.FgBlue, color.Bold),
		info:  mk(color.FgGreen, color.Bold),
		warn:  mk(color.FgYellow, color.Bold),
		err:   mk(color.FgRed, color.Bold),
	}
}

func (p *palette) level(l slog.Level) *color.Color {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	}

	return p.trace
}

// builtins returns the time, level, source and message attributes of r
// after ReplaceAttr. Attributes replaced by an empty one are dropped.
func builtins(opts *slog.HandlerOptions, r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs, slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))

	if opts.ReplaceAttr == nil {
		return attrs
	}

	out := attrs[:0]

	for _, a := range attrs {
		if a = opts.ReplaceAttr(nil, a); a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

func enabled(opts *slog.HandlerOptions, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if opts.Level != nil {
		minLevel = opts.Level.Level()
	}

	return level >= minLevel
}

// prettyTextHandler writes one line per record with unquoted values and
// dotted keys for groups.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	pal    *palette
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	pre    []byte
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	enableColor bool,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts: *opts,
		pal:  newPalette(enableColor),
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return enabled(&h.opts, level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range builtins(&h.opts, r) {
		if a.Key == slog.LevelKey {
			h.space(buf)
			buf.WriteString(h.pal.level(r.Level).Sprint(a.Value.String()))

			continue
		}

		h.writeAttr(buf, "", a)
	}

	if len(h.pre) > 0 {
		h.space(buf)
		buf.Write(h.pre)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	h2 := *h

	buf := bytes.NewBuffer(slices.Clone(h.pre))
	for _, a := range attrs {
		h2.writeAttr(buf, h.prefix, a)
	}

	h2.pre = buf.Bytes()

	return &h2
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	h2 := *h
	h2.prefix = h.prefix + name + "."

	return &h2
}

func (*prettyTextHandler) space(buf *bytes.Buffer) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.writeAttr(buf, prefix, g)
		}

		return
	}

	h.space(buf)
	buf.WriteString(h.pal.key.Sprint(prefix + a.Key))
	buf.WriteByte('=')
	buf.WriteString(h.formatValue(a.Value))
}

func (h *prettyTextHandler) formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.pal.str.Sprint(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.pal.num.Sprint(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.pal.yes.Sprint("true")
		}

		return h.pal.no.Sprint("false")

	case slog.KindDuration:
		return h.pal.dur.Sprint(v.Duration().String())

	case slog.KindTime:
		return h.pal.when.Sprint(v.Time().Format(time.RFC3339))

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return h.pal.level(level).Sprint(strings.ToUpper(Level(level).String()))
		}
	}

	return h.pal.str.Sprint(v.String())
}

// prettyJSONHandler writes each record as an indented JSON-like object with
// groups as nested objects.
type prettyJSONHandler struct {
	opts   slog.HandlerOptions
	pal    *palette
	mu     *sync.Mutex
	w      io.Writer
	groups []string
	attrs  []slog.Attr
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	enableColor bool,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts: *opts,
		pal:  newPalette(enableColor),
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return enabled(&h.opts, level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	fields := builtins(&h.opts, r)
	fields = append(fields, h.attrs...)

	recAttrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		recAttrs = append(recAttrs, a)

		return true
	})

	if len(recAttrs) > 0 {
		fields = append(fields, nest(h.groups, recAttrs)...)
	}

	buf := new(bytes.Buffer)
	h.writeObject(buf, fields, 0, r.Level)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	h2 := *h
	h2.attrs = append(slices.Clip(h.attrs), nest(h.groups, attrs)...)

	return &h2
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	h2 := *h
	h2.groups = append(slices.Clip(h.groups), name)

	return &h2
}

// nest wraps attrs in one group per name, innermost last.
func nest(groups []string, attrs []slog.Attr) []slog.Attr {
	for i := len(groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: groups[i], Value: slog.GroupValue(attrs...)}}
	}

	return attrs
}

func (h *prettyJSONHandler) writeObject(
	buf *bytes.Buffer,
	attrs []slog.Attr,
	depth int,
	level slog.Level,
) {
	indent := strings.Repeat("  ", depth+1)

	buf.WriteString("{")

	first := true

	for _, a := range attrs {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			continue
		}

		if !first {
			buf.WriteByte(',')
		}

		first = false

		buf.WriteByte('\n')
		buf.WriteString(indent)
		buf.WriteString(h.pal.key.Sprint(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		switch {
		case a.Value.Kind() == slog.KindGroup:
			h.writeObject(buf, a.Value.Group(), depth+1, level)

		case depth == 0 && a.Key == slog.LevelKey:
			buf.WriteString(h.pal.level(level).Sprint(strconv.Quote(a.Value.String())))

		default:
			buf.WriteString(h.formatValue(a.Value))
		}
	}

	if !first {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", depth))
	}

	buf.WriteString("}")
}

func (h *prettyJSONHandler) formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.pal.str.Sprint(strconv.Quote(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.pal.num.Sprint(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.pal.yes.Sprint("true")
		}

		return h.pal.no.Sprint("false")

	case slog.KindDuration:
		return h.pal.dur.Sprint(strconv.Quote(v.Duration().String()))

	case slog.KindTime:
		return h.pal.when.Sprint(strconv.Quote(v.Time().Format(time.RFC3339Nano)))
	}

	x := v.Any()

	switch val := x.(type) {
	case nil:
		return h.pal.null.Sprint("null")

	case error:
		return h.pal.str.Sprint(strconv.Quote(val.Error()))

	case slog.Level:
		return h.pal.level(val).Sprint(strconv.Quote(strings.ToUpper(Level(val).String())))
	}

	if b, err := json.Marshal(x); err == nil {
		return h.pal.str.Sprint(string(b))
	}

	return h.pal.str.Sprint(strconv.Quote(fmt.Sprint(x)))
}
