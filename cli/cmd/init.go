package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skui/lang"
	"github.com/ardnew/skui/log"
	"github.com/ardnew/skui/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// ConfigSelector names the style rule that holds configuration in a config
// file, as in "config { log-level: "debug" }".
const ConfigSelector = "config"

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = configDocument(ktx).Format(ctx, file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configDocument builds a document holding one config rule with a property
// for every application flag that has a value.
func configDocument(ktx *kong.Context) *lang.Document {
	b := lang.NewBuilder()

	ignore := []string{"help", "version", profile.Tag}

	var props []lang.Property

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(b, ktx.FlagValue(flag)); val != nil {
			props = append(props, b.Prop(flag.Name, val))
		}
	}

	return b.Document(b.Rule(b.Type(ConfigSelector), props...))
}

// flagValue converts a flag value to a property value, or nil if it is unset
// or has no representation.
func flagValue(b *lang.Builder, v any) lang.Value {
	switch v := v.(type) {
	case bool:
		return b.Bool(v)

	case string:
		if v == "" {
			return nil
		}

		return b.String(v)

	case int:
		return b.Int(int64(v))

	case int64:
		return b.Int(v)

	case uint:
		return b.Int(int64(v)) //nolint:gosec

	case float64:
		return b.Float(v)

	case []string:
		if len(v) == 0 {
			return nil
		}

		elems := make([]lang.Value, len(v))
		for i, s := range v {
			elems[i] = b.String(s)
		}

		return b.Array(elems...)

	case []int:
		if len(v) == 0 {
			return nil
		}

		elems := make([]lang.Value, len(v))
		for i, n := range v {
			elems[i] = b.Int(int64(n))
		}

		return b.Array(elems...)
	}

	// Named string types, such as enum flags with parse hooks.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return flagValue(b, rv.String())
	}

	return nil
}
