// Package cli contains the command line interface for skui.
//
// # Usage
//
//	skui [flags] <command> [args]
//
// Commands are check (the default), fmt, init and inspect; see package
// [github.com/ardnew/skui/cli/cmd].
//
// # Configuration
//
// Flag defaults are read from two files in the user configuration
// directory: config.json, and config.skui written in skui itself. The
// latter holds a single style rule whose properties name flags:
//
//	config {
//	  log-level: "debug"
//	  log-pretty: false
//	  path: ["./layouts", "/usr/share/skui"]
//	}
//
// skui init writes this file from the current flag values.
//
// # Search Path
//
// Relative source names not found in the working directory are looked up
// in the directories given with --path (-I), then in those listed in
// SKUI_PATH.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time: Set timestamp format (RFC3339, RFC3339Nano, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Use the pretty handlers (default)
//   - --log-color: Colour pretty output (auto, always, never)
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//		go build -tags pprof -o skui .
//
//	  - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//	    heap, mem, mutex, thread, trace)
//	  - --pprof-dir: Set profile output directory (default ~/.cache/skui/pprof)
//
// # Examples
//
//	# Check every layout, compiling closures too
//	skui check --closures layouts/*.skui
//
//	# Show what formatting would change
//	skui fmt native --diff main.skui
//
//	# Debug logging with CPU profiling
//	skui --log-level=debug --pprof-mode=cpu check main.skui
package cli
