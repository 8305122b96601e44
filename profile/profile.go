package profile

// Tag is the build tag that enables profiling. It also names the default
// output subdirectory.
const Tag = "pprof"

// Profiler describes one profiling session.
type Profiler struct {
	// Mode selects what to profile; see [Modes]. An empty Mode disables
	// profiling.
	Mode string
	// Path is the output directory. Empty selects a temporary directory.
	Path string
	// Quiet suppresses the profiler's own log lines.
	Quiet bool
}

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Start begins profiling. Without the pprof build tag, or with an empty or
// unknown Mode, Start returns a Stopper that does nothing. Stop is always
// safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether the binary was built with profiling support.
func Enabled() bool { return enabled }

type ignore struct{}

func (ignore) Stop() {}
