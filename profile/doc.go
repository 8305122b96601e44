// Package profile starts optional runtime profiling through
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	skui --pprof-mode cpu --pprof-dir /tmp/prof check layout.skui
//
// Without the tag [Modes] is empty and [Profiler.Start] returns a no-op, so
// callers never need their own build constraints:
//
//	stop := profile.Profiler{Mode: mode, Path: dir, Quiet: true}.Start()
//	defer stop.Stop()
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. Output is written to Path, or to a temporary
// directory when Path is empty. The resulting files are read with
// "go tool pprof" (or "go tool trace" for the trace mode).
package profile
