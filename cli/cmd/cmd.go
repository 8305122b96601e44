package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/skui/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	searchPathKey struct{}
	stdioKey      struct{}

	stdio struct {
		in  io.Reader
		out io.Writer
	}
)

// WithSearchPath returns a new context.Context carrying the directories in
// which relative source names are looked up after the working directory.
func WithSearchPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, dirs)
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

// WithStdio returns a new context.Context whose commands read "-" from in and
// write results to out. Nil values select os.Stdin and os.Stdout.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out})
}

func stdinFrom(ctx context.Context) io.Reader {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.in != nil {
		return s.in
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if s, ok := ctx.Value(stdioKey{}).(stdio); ok && s.out != nil {
		return s.out
	}

	return os.Stdout
}

// colorMode selects when diagnostics are coloured.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// useColor resolves mode for w. In auto mode only a terminal gets colour.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}

	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Source is one input document read by a command.
type Source struct {
	// Name labels diagnostics. Stdin is named "<stdin>".
	Name string
	Data []byte
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

const stdinName = "<stdin>"

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// readSources reads every named source in order.
//
// Relative names not found in the working directory are looked up in the
// search path. Sources naming the same file, through symlinks or different
// relative paths, are read once. All occurrences of "-" are replaced with a
// single read of stdin placed last.
func readSources(ctx context.Context, names []string) ([]Source, error) {
	dirs := searchPathFrom(ctx)
	seen := make(map[fileKey]struct{})
	srcs := make([]Source, 0, len(names))

	var hasStdin bool

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		path, err := locate(name, dirs)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, pkg.ErrReadSource.Wrap(err)
		}

		if key, ok := makeFileKey(info); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, pkg.ErrReadSource.Wrap(err)
		}

		srcs = append(srcs, Source{Name: name, Data: data})
	}

	if hasStdin {
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(stdinFrom(ctx)); err != nil {
			return nil, pkg.ErrReadSource.Wrap(err)
		}

		srcs = append(srcs, Source{Name: stdinName, Data: buf.Bytes()})
	}

	return srcs, nil
}

// locate returns the path of the file called name. Absolute names and names
// that exist relative to the working directory are returned as they are;
// otherwise each directory in dirs is tried in order. Symlinks are resolved.
func locate(name string, dirs []string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		for _, dir := range dirs {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, path := range candidates {
		resolved, err := filepath.EvalSymlinks(path)
		if err == nil {
			return resolved, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return "", pkg.ErrReadSource.Wrap(err)
		}
	}

	return "", pkg.ErrSourceNotFound.Wrapf("%q", name)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
