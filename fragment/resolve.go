package fragment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/q3/log"
)

var errNoRunner = errors.New("no script runner configured")

// Option configures a call to [Resolve].
type Option func(*session)

// WithRunner sets the script runner used by lists and generators.
func WithRunner(r Runner) Option {
	return func(s *session) { s.runner = r }
}

// WithLogger sets the logger used to trace resolution.
func WithLogger(l log.Logger) Option {
	return func(s *session) { s.logger = l }
}

// session holds the state of one [Resolve] call. The in-flight set and
// stack track queries currently being expanded.
type session struct {
	ctx      context.Context
	store    *Store
	runner   Runner
	logger   log.Logger
	inflight map[Name]struct{}
	stack    []Name
}

// Resolve expands every query in store and resolves every list and
// generator, in insertion order.
//
// References are resolved depth-first and each fragment is resolved at most
// once, so scripts never rerun and already expanded queries are left alone.
// The first failure aborts the call; a store that failed to resolve must not
// be presented as a result.
func Resolve(ctx context.Context, store *Store, opts ...Option) error {
	s := &session{
		ctx:      ctx,
		store:    store,
		inflight: make(map[Name]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger.TraceContext(ctx, "resolve start",
		slog.Int("fragments", store.Len()))

	for _, f := range store.All() {
		if _, err := s.resolve(f); err != nil {
			return err
		}
	}

	if pending := store.Pending(); len(pending) > 0 {
		return ErrUnresolved.With(slog.String("names", joinNames(pending, ", ")))
	}

	s.logger.TraceContext(ctx, "resolve complete",
		slog.Int("fragments", store.Len()))

	return nil
}

// resolve brings f to its resolved state and returns its rendered value.
func (s *session) resolve(f Fragment) (string, error) {
	var err error

	switch f := f.(type) {
	case *Query:
		err = s.expand(f)

	case *List:
		err = s.resolveList(f)

	case *Generator:
		err = s.resolveGenerator(f)

	default:
		err = ErrUnresolved.With(slog.String("type", fmt.Sprintf("%T", f)))
	}

	if err != nil {
		return "", err
	}

	return f.String(), nil
}

// expand substitutes every reference in q. A query met again while it is
// still being expanded closes a cycle.
func (s *session) expand(q *Query) error {
	if q.Expanded() {
		return nil
	}

	if _, busy := s.inflight[q.name]; busy {
		return ErrCyclicReference.With(
			slog.String("name", string(q.name)),
			slog.String("chain", s.chain(q.name)),
		)
	}

	s.inflight[q.name] = struct{}{}
	s.stack = append(s.stack, q.name)

	defer func() {
		delete(s.inflight, q.name)
		s.stack = s.stack[:len(s.stack)-1]
	}()

	tokens := make([]Token, len(q.tokens))

	for i, t := range q.tokens {
		if t.Kind == Literal {
			tokens[i] = t

			continue
		}

		target, ok := s.store.Get(Name(t.Text))
		if !ok {
			return ErrNameNotFound.With(
				slog.String("name", t.Text),
				slog.String("query", string(q.name)),
			)
		}

		value, err := s.resolve(target)
		if err != nil {
			return err
		}

		tokens[i] = Token{Kind: Literal, Text: value}
	}

	q.expand(tokens)

	s.logger.TraceContext(s.ctx, "query expanded",
		slog.String("name", string(q.name)),
		slog.Int("depth", len(s.stack)))

	return nil
}

func (s *session) resolveList(l *List) error {
	if l.Resolved() {
		return nil
	}

	value, err := s.run(l.name, l.script, map[string]any{
		ValueBinding: l.Elements(),
	})
	if err != nil {
		return err
	}

	l.resolve(value)

	return nil
}

func (s *session) resolveGenerator(g *Generator) error {
	if g.Resolved() {
		return nil
	}

	value, err := s.run(g.name, g.script, map[string]any{})
	if err != nil {
		return err
	}

	g.resolve(value)

	return nil
}

// run executes script and returns the string it bound to [ValueBinding].
func (s *session) run(
	name Name,
	script string,
	inputs map[string]any,
) (string, error) {
	attr := slog.String("name", string(name))

	if s.runner == nil {
		return "", ErrScriptFailed.Wrap(errNoRunner).With(attr)
	}

	s.logger.TraceContext(s.ctx, "run script", attr,
		slog.Int("inputs", len(inputs)))

	out, err := s.runner.Run(s.ctx, script, inputs)
	if err != nil {
		return "", ErrScriptFailed.Wrap(err).With(attr)
	}

	value, ok := out[ValueBinding]
	if !ok || value == nil {
		return "", ErrScriptOutputMissing.With(attr)
	}

	str, ok := value.(string)
	if !ok {
		return "", ErrScriptFailed.
			Wrap(fmt.Errorf("%s is %T, not string", ValueBinding, value)).
			With(attr)
	}

	return str, nil
}

// chain renders the in-flight stack from the first occurrence of name
// through the repeated name, e.g. "a -> b -> a".
func (s *session) chain(name Name) string {
	start := 0

	for i, n := range s.stack {
		if n == name {
			start = i

			break
		}
	}

	return joinNames(append(s.stack[start:len(s.stack):len(s.stack)], name), " -> ")
}

func joinNames(names []Name, sep string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}

	return strings.Join(parts, sep)
}
