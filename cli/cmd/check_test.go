package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCheckRun(t *testing.T) {
	tests := []struct {
		name     string
		check    Check
		src      string
		wantErr  error
		wantOut  []string
		wantNone bool
	}{
		{
			name:     "valid",
			src:      "App() { Label(\"hi\") #greeting }\nLabel { color: red }\n",
			wantNone: true,
		},
		{
			name:    "syntax error",
			src:     "App( {",
			wantErr: ErrDiagnostics,
			wantOut: []string{"<stdin>"},
		},
		{
			name:    "validation error",
			src:     "App()\nOther()\n",
			wantErr: ErrDiagnostics,
			wantOut: []string{"<stdin>"},
		},
		{
			name:     "quiet",
			check:    Check{Quiet: true},
			src:      "App( {",
			wantErr:  ErrDiagnostics,
			wantNone: true,
		},
		{
			name:     "closures unchecked",
			src:      "App(valid: {{ 1 + }})\n",
			wantNone: true,
		},
		{
			name:    "closures checked",
			check:   Check{Closures: true},
			src:     "App(valid: {{ 1 + }})\n",
			wantErr: ErrDiagnostics,
			wantOut: []string{"<stdin>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			ctx := WithStdio(context.Background(), strings.NewReader(tt.src), &out)

			c := tt.check
			c.Color = colorNever

			err := c.Run(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantNone && out.Len() > 0 {
				t.Errorf("unexpected output:\n%s", out.String())
			}

			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output does not contain %q:\n%s", want, out.String())
				}
			}
		})
	}
}
