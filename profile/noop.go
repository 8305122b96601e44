//go:build !pprof

package profile

const enabled = false

// Modes returns nil; profiling requires the pprof build tag.
func Modes() []string { return nil }

func start(Profiler) Stopper { return ignore{} }
