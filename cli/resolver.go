package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skui/lang"
	"github.com/ardnew/skui/log"
)

// resolve returns a [kong.ConfigurationLoader] for config files written in
// skui itself. Settings are the properties of style rules whose selector is
// the type name given by selector:
//
//	config {
//	  log-level: "debug"
//	  log-pretty: false
//	  path: ["./layouts", "/usr/share/skui"]
//	}
//
// Property names match flag names; underscores may stand in for hyphens.
// When several rules or properties set the same flag, the last one wins.
// Numbers are passed to kong as strings, arrays as lists.
//
// A config file that does not parse is logged and otherwise ignored, as are
// rules with other selectors. Command-line flags override config values.
func resolve(ctx context.Context, selector string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		doc, err := lang.ParseReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring config file",
				slog.Any("error", err))

			if doc == nil {
				return config{}, nil
			}
		}

		return configFrom(doc, selector), nil
	}
}

// config implements [kong.Resolver] over the flattened config rules.
type config map[string]any

func configFrom(doc *lang.Document, selector string) config {
	sel := lang.Selector{Kind: lang.SelectorType, Name: selector}
	cfg := config{}

	for _, rule := range doc.Rules {
		if rule.Selector != sel {
			continue
		}

		for _, prop := range rule.Properties {
			cfg[strings.ReplaceAll(prop.Key, "_", "-")] = flagNative(prop.Value)
		}
	}

	return cfg
}

// flagNative converts v to the form kong decodes flags from.
func flagNative(v lang.Value) any {
	switch x := v.(type) {
	case lang.Number:
		if x.Unit != "" || x.IsFloat {
			return x.String()
		}

		return strconv.FormatInt(x.Int, 10)

	case lang.Ident:
		return string(x)

	case lang.Array:
		list := make([]any, len(x))
		for i, e := range x {
			list[i] = flagNative(e)
		}

		return list
	}

	return lang.ToNative(v)
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}
