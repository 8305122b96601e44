package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/skui/lang"
)

type namedString string

// initFlags stands in for the global flags of the real command line.
type initFlags struct {
	Level  namedString `default:"info"  name:"log-level"`
	Pretty bool        `default:"true"  name:"log-pretty"`
	Depth  int         `default:"100"   name:"max-depth"`
	Path   []string    `name:"path"`
	Empty  string
	Secret string `default:"x"     hidden:""`
	Mode   string `default:"cpu"   name:"pprof-mode"`
}

func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initFlags

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name     string
		force    bool
		existing bool
		args     []string
		want     string
		wantErr  error
	}{
		{
			name: "defaults",
			want: `config {
  log-level: "info"
  log-pretty: true
  max-depth: 100
}
`,
		},
		{
			name: "flags",
			args: []string{"--log-level=debug", "--path=a,b", "--empty=e"},
			want: `config {
  log-level: "debug"
  log-pretty: true
  max-depth: 100
  path: "a" "b"
  empty: "e"
}
`,
		},
		{
			name:     "exists",
			existing: true,
			wantErr:  ErrFileExists,
		},
		{
			name:     "force",
			existing: true,
			force:    true,
			want: `config {
  log-level: "info"
  log-pretty: true
  max-depth: 100
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.skui")

			if tt.existing {
				writeFile(t, confPath, "existing")
			}

			err := (&Init{Force: tt.force}).Run(initContext(t, confPath, tt.args...))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run error = %v, want %v", err, tt.wantErr)
			}

			data, rerr := os.ReadFile(confPath)
			if rerr != nil {
				t.Fatal(rerr)
			}

			if err != nil {
				if string(data) != "existing" {
					t.Errorf("existing file was modified: %q", data)
				}

				return
			}

			if diff := cmp.Diff(tt.want, string(data)); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}

			if _, err := lang.Parse(context.Background(), string(data)); err != nil {
				t.Errorf("generated config does not parse: %v", err)
			}
		})
	}
}
