package profile

// Tag is the build tag that enables profiling. It also names the default
// output subdirectory beneath the cache directory.
const Tag = "pprof"

// Profiler describes a profiling session.
type Profiler struct {
	// Mode selects what is profiled; see [Modes]. Empty disables profiling.
	Mode string
	// Path is the directory profile data is written to.
	Path string
	// Quiet suppresses the profiler's own start/stop messages.
	Quiet bool
}

// Start begins profiling and returns a handle that stops it.
//
// Without the pprof build tag, or with an empty or unknown Mode, Start
// returns a no-op handle. Both Start and Stop are always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
