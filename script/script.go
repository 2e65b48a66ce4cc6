package script

import (
	"context"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/q3/fragment"
	"github.com/ardnew/q3/log"
)

// Runner evaluates expr-lang scripts.
//
// Compiled programs are cached by source and input shape, so a Runner shared
// across reloads compiles each distinct script once. A Runner is safe for
// concurrent use.
type Runner struct {
	logger     log.Logger
	processEnv map[string]string
	programs   sync.Map // uint64 -> *vm.Program
}

var _ fragment.Runner = (*Runner)(nil)

// Option configures a [Runner].
type Option func(*Runner)

// WithLogger sets the logger used to trace compilation and evaluation.
func WithLogger(l log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithProcessEnv sets the "KEY=VALUE" entries returned by env(). Without it,
// the environment of the current process is used.
func WithProcessEnv(list []string) Option {
	return func(r *Runner) { r.processEnv = processEnvMap(list) }
}

// New returns a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{}

	for _, opt := range opts {
		opt(r)
	}

	if r.processEnv == nil {
		r.processEnv = processEnvMap(nil)
	}

	return r
}

// Run evaluates source with inputs bound alongside the built-in environment.
// The script's result is returned under [fragment.ValueBinding]; a nil
// result binds nothing.
func (r *Runner) Run(
	ctx context.Context,
	source string,
	inputs map[string]any,
) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrCanceled.Wrap(err)
	}

	env := makeEnv(r.processEnv, inputs)

	program, err := r.compile(ctx, source, env, inputs)
	if err != nil {
		return nil, err
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	r.logger.TraceContext(ctx, "script evaluated",
		slog.String("result_type", typeName(result)))

	out := make(map[string]any, 1)
	if result != nil {
		out[fragment.ValueBinding] = result
	}

	return out, nil
}

func (r *Runner) compile(
	ctx context.Context,
	source string,
	env map[string]any,
	inputs map[string]any,
) (*vm.Program, error) {
	key := programKey(source, inputs)

	if p, ok := r.programs.Load(key); ok {
		return p.(*vm.Program), nil
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrCompile.Wrap(err).
			With(slog.String("source", source))
	}

	r.logger.TraceContext(ctx, "script compiled",
		slog.Int("source_bytes", len(source)),
		slog.Int("inputs", len(inputs)))

	r.programs.Store(key, program)

	return program, nil
}

// programKey hashes source with the name and type of every input, since the
// same source compiles differently against differently typed bindings.
func programKey(source string, inputs map[string]any) uint64 {
	var sb strings.Builder

	sb.WriteString(source)

	for _, name := range slices.Sorted(maps.Keys(inputs)) {
		sb.WriteByte(0)
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(typeName(inputs[name]))
	}

	return xxh3.HashString(sb.String())
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return reflect.TypeOf(v).String()
}
