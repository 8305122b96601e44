package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// jsonLogger returns a Logger writing plain JSON without timestamps.
func jsonLogger(buf *bytes.Buffer, opts ...Option) Logger {
	base := []Option{
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	}

	return Make(buf, append(base, opts...)...)
}

func decode(t *testing.T, line []byte) map[string]any {
	t.Helper()

	var entry map[string]any
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("invalid JSON log entry %q: %v", line, err)
	}

	return entry
}

func TestMake_Defaults(t *testing.T) {
	l := Make(nil)

	if l.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", l.Level(), DefaultLevel)
	}

	if l.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", l.Format(), DefaultFormat)
	}

	if l.caller != DefaultCaller || l.pretty != DefaultPretty || l.color != DefaultColor {
		t.Errorf("caller=%v pretty=%v color=%v, want defaults",
			l.caller, l.pretty, l.color)
	}

	if l.output == nil {
		t.Error("nil writer was not replaced")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at error", Logger.Error, LevelError, true},
		{"error at trace", Logger.Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.logFunc(jsonLogger(&buf, WithLevel(tt.minLevel)), "message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v", got, tt.logged)
			}
		})
	}
}

func TestLogger_LevelNames(t *testing.T) {
	tests := []struct {
		logFunc func(Logger, string, ...slog.Attr)
		want    string
	}{
		{Logger.Trace, "TRACE"},
		{Logger.Debug, "DEBUG"},
		{Logger.Info, "INFO"},
		{Logger.Warn, "WARN"},
		{Logger.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer

			tt.logFunc(jsonLogger(&buf, WithLevel(LevelTrace)), "message")

			if got := decode(t, buf.Bytes())["level"]; got != tt.want {
				t.Errorf("level = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger)
	}{
		{"trace", func(l Logger) { l.TraceContext(t.Context(), "message") }},
		{"debug", func(l Logger) { l.DebugContext(t.Context(), "message") }},
		{"info", func(l Logger) { l.InfoContext(t.Context(), "message") }},
		{"warn", func(l Logger) { l.WarnContext(t.Context(), "message") }},
		{"error", func(l Logger) { l.ErrorContext(t.Context(), "message") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.logFunc(jsonLogger(&buf, WithLevel(LevelTrace)))

			if got := decode(t, buf.Bytes())["msg"]; got != "message" {
				t.Errorf("msg = %v", got)
			}
		})
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	jsonLogger(&buf, WithCaller(true)).Info("message")

	src, ok := decode(t, buf.Bytes())["source"].(map[string]any)
	if !ok {
		t.Fatalf("no source in %s", buf.String())
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want the calling test file", file)
	}

	buf.Reset()
	jsonLogger(&buf, WithCaller(false)).Info("message")

	if _, ok := decode(t, buf.Bytes())["source"]; ok {
		t.Error("source included when disabled")
	}
}

func TestLogger_TimeLayout(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithPretty(false), WithTimeLayout("RFC3339Nano")).
		Info("message")

	if ts, _ := decode(t, buf.Bytes())["time"].(string); !strings.Contains(ts, "T") {
		t.Errorf("time = %q, want an RFC 3339 timestamp", ts)
	}

	buf.Reset()
	jsonLogger(&buf).Info("message")

	if _, ok := decode(t, buf.Bytes())["time"]; ok {
		t.Error("time included with layout none")
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatText), WithPretty(false), WithTimeLayout("")).
		Info("parsed document", slog.String("file", "app.skui"))

	want := `level=INFO msg="parsed document" file=app.skui` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer

	base := jsonLogger(&buf)
	derived := base.With(slog.String("command", "check"))

	derived.Info("message")

	if got := decode(t, buf.Bytes())["command"]; got != "check" {
		t.Errorf("command = %v, want check", got)
	}

	buf.Reset()
	base.Info("message")

	if _, ok := decode(t, buf.Bytes())["command"]; ok {
		t.Error("With modified the original logger")
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := jsonLogger(&buf)
	quiet := base.Wrap(WithLevel(LevelError))

	if base.Level() != LevelInfo || quiet.Level() != LevelError {
		t.Errorf("levels = %v, %v; want info, error", base.Level(), quiet.Level())
	}

	if quiet.Format() != FormatJSON {
		t.Errorf("Wrap lost the format: %v", quiet.Format())
	}

	quiet.Warn("dropped")

	if buf.Len() != 0 {
		t.Errorf("wrapped logger wrote below its level: %s", buf.String())
	}

	var zero Logger
	if got := zero.Wrap(WithLevel(LevelDebug)).Level(); got != LevelDebug {
		t.Errorf("zero Wrap level = %v, want debug", got)
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("message")
	l.Debug("message")
	l.Info("message")
	l.Warn("message")
	l.Error("message")
	l.InfoContext(t.Context(), "message")

	if l.With(slog.String("k", "v")).Logger != nil {
		t.Error("With on the zero Logger returned a live logger")
	}

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports levels enabled")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero Logger does not report defaults")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf bytes.Buffer

	logger := jsonLogger(&buf)

	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			logger.Info("concurrent", slog.Int("id", i))
		}()
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Fatalf("got %d lines, want 100", len(lines))
	}

	for _, line := range lines {
		decode(t, []byte(line))
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false))

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_InfoPretty(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf, WithColor(true))

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark", slog.Int("iteration", i))
	}
}

func BenchmarkLogger_TraceDisabled(b *testing.B) {
	logger := Make(nil)

	for b.Loop() {
		logger.Trace("dropped", slog.String("k", "v"))
	}
}
