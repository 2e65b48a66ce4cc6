package config

import (
	"time"

	"github.com/ardnew/q3/log"
)

// DefaultLockRetry is the delay between attempts to take a file lock.
const DefaultLockRetry = 50 * time.Millisecond

type options struct {
	logger     log.Logger
	processEnv []string
	format     *Format
	lockRetry  time.Duration
	overwrite  bool
}

// Option configures loading and writing documents.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{lockRetry: DefaultLockRetry}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogger sets the logger used to trace loading.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProcessEnv sets the "KEY=VALUE" entries visible to HCL documents as
// env.KEY. Without it, the environment of the current process is used.
func WithProcessEnv(list []string) Option {
	return func(o *options) { o.processEnv = list }
}

// WithLockRetry sets the delay between attempts to take a file lock.
func WithLockRetry(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.lockRetry = d
		}
	}
}

// WithOverwrite lets [Write] replace an existing file.
func WithOverwrite(overwrite bool) Option {
	return func(o *options) { o.overwrite = overwrite }
}

// WithFormat overrides the format [Load] infers from the file extension.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = &f }
}
