package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/skui/lang"
)

func TestConfigFrom(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want config
	}{
		{
			name: "scalars",
			src: `config {
  log-level: "debug"
  log-pretty: false
  max_depth: 12
  ratio: 1.5
  gap: 4px
  mode: fast
}`,
			want: config{
				"log-level":  "debug",
				"log-pretty": false,
				"max-depth":  "12",
				"ratio":      "1.5",
				"gap":        "4px",
				"mode":       "fast",
			},
		},
		{
			name: "array",
			src:  `config { path: ["a", "b"] }`,
			want: config{"path": []any{"a", "b"}},
		},
		{
			name: "last wins",
			src:  "config { log-level: \"info\" }\nconfig { log-level: \"warn\" }",
			want: config{"log-level": "warn"},
		},
		{
			name: "other selectors ignored",
			src:  "#config { a: 1 }\n.config { b: 2 }\nother { c: 3 }\nApp() { d: 4 }",
			want: config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := lang.Parse(context.Background(), tt.src)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}

			if diff := cmp.Diff(tt.want, configFrom(doc, baseConfig)); diff != "" {
				t.Errorf("configFrom mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		r, err := resolve(ctx, baseConfig)(strings.NewReader(`config { name: "x" }`))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}

		got, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "name"}})
		if err != nil || got != "x" {
			t.Errorf("Resolve(name) = %v, %v; want x", got, err)
		}

		got, err = r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "missing"}})
		if err != nil || got != nil {
			t.Errorf("Resolve(missing) = %v, %v; want nil", got, err)
		}
	})

	t.Run("invalid source ignored", func(t *testing.T) {
		r, err := resolve(ctx, baseConfig)(strings.NewReader(`config { "unterminated`))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}

		if err := r.Validate(nil); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})
}

func TestResolve_Kong(t *testing.T) {
	var cli struct {
		Name  string   `default:"none"`
		Count int      `default:"1"`
		Tags  []string `sep:","`
	}

	src := `config { name: "from-config"; count: 3; tags: ["a", "b"] }`

	parser, err := kong.New(&cli,
		kong.Resolvers(mustResolver(t, src)),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	if _, err := parser.Parse([]string{"--count=5"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cli.Name != "from-config" {
		t.Errorf("Name = %q, want from-config", cli.Name)
	}

	if cli.Count != 5 {
		t.Errorf("Count = %d, want the command-line value 5", cli.Count)
	}

	if diff := cmp.Diff([]string{"a", "b"}, cli.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}

func mustResolver(t *testing.T, src string) kong.Resolver {
	t.Helper()

	r, err := resolve(context.Background(), baseConfig)(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	return r
}
