package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"debug-4", LevelTrace},
		{"warn+2", Level(6)},
		{"", DefaultLevel},
		{"verbose", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(6), "warn+2"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	want := []string{"trace", "debug", "info", "warn", "error"}
	if got := slices.Collect(Levels()); !slices.Equal(got, want) {
		t.Errorf("Levels() = %v, want %v", got, want)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{" JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := Format(7).String(); got != "Format(7)" {
		t.Errorf("unknown format = %q", got)
	}

	want := []string{"text", "json"}
	if got := slices.Collect(Formats()); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestOptions(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithColor(true),
		nil,
	)

	if c.level != LevelWarn || c.format != FormatJSON || !c.caller || c.pretty || !c.color {
		t.Errorf("options not applied: %+v", c)
	}

	if c.mutex == nil {
		t.Error("options did not create a mutex")
	}

	// Later options win.
	if got := apply(c, WithLevel(LevelDebug), WithLevel(LevelError)).level; got != LevelError {
		t.Errorf("level = %v, want error", got)
	}

	if apply(config{}, WithOutput(nil)).output == nil {
		t.Error("WithOutput(nil) left a nil writer")
	}
}

func TestConfig_FormatTime(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano", "RFC3339Nano", "2023-10-15T14:30:45.123456789Z"},
		{"punctuation ignored", " rfc-3339 ", "2023-10-15T14:30:45Z"},
		{"milliseconds", "ms", "Oct 15 14:30:45.123"},
		{"kitchen", "Kitchen", "2:30PM"},
		{"custom", "2006-01-02", "2023-10-15"},
		{"none", "none", ""},
		{"empty", "", ""},
		{"blank", "  \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})

			if got := c.formatTime(now); got != tt.want {
				t.Errorf("formatTime = %q, want %q", got, tt.want)
			}
		})
	}
}

func BenchmarkConfig_FormatTime(b *testing.B) {
	c := WithTimeLayout("RFC3339Nano")(config{})
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
