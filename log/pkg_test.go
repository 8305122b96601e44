package log

import (
	"bytes"
	"log/slog"
	"testing"
)

// useDefault points the package-level logger at buf for the duration of the
// test.
func useDefault(t *testing.T, buf *bytes.Buffer) {
	t.Helper()

	original := Default()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	})

	Config(
		WithOutput(buf),
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"),
	)
}

func TestPackage_Functions(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, &buf)

	tests := []struct {
		name  string
		fn    func()
		level string
	}{
		{"Trace", func() { Trace("m", slog.String("k", "v")) }, "TRACE"},
		{"Debug", func() { Debug("m", slog.String("k", "v")) }, "DEBUG"},
		{"Info", func() { Info("m", slog.String("k", "v")) }, "INFO"},
		{"Warn", func() { Warn("m", slog.String("k", "v")) }, "WARN"},
		{"Error", func() { Error("m", slog.String("k", "v")) }, "ERROR"},
		{"TraceContext", func() { TraceContext(t.Context(), "m", slog.String("k", "v")) }, "TRACE"},
		{"DebugContext", func() { DebugContext(t.Context(), "m", slog.String("k", "v")) }, "DEBUG"},
		{"InfoContext", func() { InfoContext(t.Context(), "m", slog.String("k", "v")) }, "INFO"},
		{"WarnContext", func() { WarnContext(t.Context(), "m", slog.String("k", "v")) }, "WARN"},
		{"ErrorContext", func() { ErrorContext(t.Context(), "m", slog.String("k", "v")) }, "ERROR"},
		{"With", func() { With(slog.String("k", "v")).Info("m") }, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()

			entry := decode(t, buf.Bytes())
			if entry["level"] != tt.level || entry["msg"] != "m" || entry["k"] != "v" {
				t.Errorf("entry = %v, want level %s with k=v", entry, tt.level)
			}
		})
	}
}

func TestPackage_ConfigKeepsSettings(t *testing.T) {
	var buf bytes.Buffer

	useDefault(t, &buf)

	Config(WithLevel(LevelError))

	if Default().Format() != FormatJSON {
		t.Error("Config reset the format")
	}

	Warn("dropped")

	if buf.Len() != 0 {
		t.Errorf("warn logged at error level: %s", buf.String())
	}
}
