// Package profile provides optional runtime profiling for q3.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag:
//
//	go build -tags pprof -o q3 .
//	q3 --pprof-mode cpu show queries.yaml
//
// Without the tag every operation is a no-op. Profiles are written to the
// directory given by [Profiler.Path], named after the mode (cpu.pprof,
// mem.pprof, and so on).
package profile
