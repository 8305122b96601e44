// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is configured once with functional options and is then
// immutable; [Logger.Wrap] and [Logger.With] derive new loggers. The zero
// Logger discards everything, which lets libraries accept a Logger in their
// options and log unconditionally.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("parsed", slog.String("file", name), slog.Int("decls", n))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The package-level functions ([Info], [Debug], ...) write through a
// default logger that [Config] reconfigures. The command-line interface
// calls Config while flags are parsed.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Trace is below Debug and is used for
// per-declaration parser events.
//
// # Output Formats
//
// [FormatText] and [FormatJSON] select the slog text and JSON handlers.
// With [WithPretty] enabled (the default) the package's own handlers are
// used instead: text prints unquoted values with dotted group keys, JSON
// prints one field per line with groups as nested objects. [WithColor]
// adds ANSI colour to either.
//
// # Context
//
// Every level has a context-aware variant. The others use
// [DefaultContextProvider], which returns [context.TODO] by default.
package log
