package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearchPath(t *testing.T) {
	dir := t.TempDir()

	mk := func(name string) string {
		path := filepath.Join(dir, name)
		if err := os.Mkdir(path, 0o700); err != nil {
			t.Fatal(err)
		}

		return path
	}

	a, b, c := mk("a"), mk("b"), mk("c")

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	env := func(dirs ...string) string {
		return strings.Join(dirs, string(os.PathListSeparator))
	}

	tests := []struct {
		name  string
		flags []string
		env   string
		want  []string
	}{
		{"empty", nil, "", nil},
		{"env only", nil, env(a, b), []string{a, b}},
		{"flags first", []string{c}, env(a, b), []string{c, a, b}},
		{"duplicates", []string{a, a}, env(b, a), []string{a, b}},
		{"missing and files dropped", []string{filepath.Join(dir, "nope")}, env(file, "", b), []string{b}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, searchPath(tt.flags, tt.env)); diff != "" {
				t.Errorf("searchPath mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
