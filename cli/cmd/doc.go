// Package cmd implements the skui subcommands: check, fmt, init and
// inspect. Each command is a kong struct with a Run(context.Context) method.
//
// Commands read the values they share through the context: the kong context
// ([WithContext]), the source search path ([WithSearchPath]) and the
// standard streams ([WithStdio]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file.
	ConfigIdentifier = "config"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default maximum nesting depth.
	MaxDepthIdentifier = "maxDepth"
)

// HistoryIdentifier is the kong variable identifier containing the path to
// the inspector history file.
var HistoryIdentifier = "historyFile"
