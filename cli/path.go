package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/skui/pkg"
)

// baseConfig is the base name of the configuration file and the type
// selector of its settings rule.
const baseConfig = "config"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the path formed by joining the configuration directory
// with the given path elements.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// searchPath returns the directories searched for relative source names.
// Directories given on the command line come first, followed by those in
// env, a list in the PATH format. Entries that are not existing directories
// and repeated entries are dropped.
func searchPath(flags []string, env string) []string {
	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(flags...),
	).String()

	var dirs []string

	for dir := range strings.SplitSeq(list, string(os.PathListSeparator)) {
		if dir != "" && !slices.Contains(dirs, dir) && isDir(dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
