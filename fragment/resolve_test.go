package fragment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/q3/log"
)

// countingRunner understands a handful of fixed scripts and counts calls.
type countingRunner struct {
	calls map[string]int
}

func newCountingRunner() *countingRunner {
	return &countingRunner{calls: make(map[string]int)}
}

func (r *countingRunner) Run(
	_ context.Context,
	script string,
	inputs map[string]any,
) (map[string]any, error) {
	r.calls[script]++

	switch script {
	case "join_or":
		elems, _ := inputs[ValueBinding].([]string)

		return map[string]any{ValueBinding: "(" + strings.Join(elems, " OR ") + ")"}, nil
	case "const":
		return map[string]any{ValueBinding: "generated"}, nil
	case "missing":
		return map[string]any{"other": "x"}, nil
	case "number":
		return map[string]any{ValueBinding: 42}, nil
	default:
		return nil, errors.New("unknown script " + script)
	}
}

func TestResolve_Transitive(t *testing.T) {
	s := NewStore(
		mustQuery(t, "q1", "#{q2} #{q3}"),
		mustQuery(t, "q2", "q3 q1"),
		mustQuery(t, "q3", "q2 q1"),
	)

	if err := Resolve(t.Context(), s); err != nil {
		t.Fatal(err)
	}

	q1, _ := s.Get("q1")
	if got, want := q1.String(), "q3 q1 q2 q1"; got != want {
		t.Errorf("q1 = %q, want %q", got, want)
	}
}

func TestResolve_RepeatedReference(t *testing.T) {
	s := NewStore(
		mustQuery(t, "lorem", "lorem ipsum"),
		mustQuery(t, "dolor", "dolor #{lorem} #{lorem}"),
	)

	if err := Resolve(t.Context(), s); err != nil {
		t.Fatal(err)
	}

	f, _ := s.Get("dolor")
	q := f.(*Query)

	if got, want := q.String(), "dolor lorem ipsum lorem ipsum"; got != want {
		t.Errorf("dolor = %q, want %q", got, want)
	}

	want := []Token{
		{Literal, "dolor "},
		{Literal, "lorem ipsum"},
		{Literal, " "},
		{Literal, "lorem ipsum"},
	}

	got := q.Tokens()
	if len(got) != len(want) {
		t.Fatalf("Tokens() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}

	if q.Source() != "dolor #{lorem} #{lorem}" {
		t.Errorf("Source() changed to %q", q.Source())
	}
}

func TestResolve_ForwardReference(t *testing.T) {
	s := NewStore(
		mustQuery(t, "outer", "[#{inner}]"),
		mustQuery(t, "inner", "<#{leaf}>"),
		mustQuery(t, "leaf", "x"),
	)

	if err := Resolve(t.Context(), s); err != nil {
		t.Fatal(err)
	}

	if got := s.String(); got != "outer : [<x>]\ninner : <x>\nleaf : x\n" {
		t.Errorf("String() = %q", got)
	}

	if pending := s.Pending(); len(pending) != 0 {
		t.Errorf("Pending() = %v after resolve", pending)
	}
}

func TestResolve_Cycles(t *testing.T) {
	tests := []struct {
		name   string
		frags  []string // name=source pairs
		chains []string // any of these is acceptable
	}{
		{
			name:   "self reference",
			frags:  []string{"a=x #{a}"},
			chains: []string{"a -> a"},
		},
		{
			name:   "two-cycle",
			frags:  []string{"a=#{b}", "b=#{a}"},
			chains: []string{"a -> b -> a"},
		},
		{
			name:   "cycle behind a prefix",
			frags:  []string{"p=#{a}", "a=#{b}", "b=#{c}", "c=#{a}"},
			chains: []string{"a -> b -> c -> a"},
		},
		{
			name:   "two independent cycles",
			frags:  []string{"a=#{b}", "b=#{a}", "c=#{d}", "d=#{c}"},
			chains: []string{"a -> b -> a", "c -> d -> c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()

			for _, kv := range tt.frags {
				name, source, _ := strings.Cut(kv, "=")
				s.Insert(mustQuery(t, Name(name), source))
			}

			err := Resolve(t.Context(), s)
			if !errors.Is(err, ErrCyclicReference) {
				t.Fatalf("Resolve() error = %v, want ErrCyclicReference", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error %T is not *Error", err)
			}

			chain, _ := e.Attr("chain")
			found := false

			for _, c := range tt.chains {
				if chain.String() == c {
					found = true
				}
			}

			if !found {
				t.Errorf("chain = %q, want one of %q", chain.String(), tt.chains)
			}
		})
	}
}

func TestResolve_NameNotFound(t *testing.T) {
	s := NewStore(
		mustQuery(t, "q", "see #{ghost}"),
	)

	err := Resolve(t.Context(), s)
	if !errors.Is(err, ErrNameNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrNameNotFound", err)
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("error %T is not *Error", err)
	}

	if v, _ := e.Attr("name"); v.String() != "ghost" {
		t.Errorf("name attr = %q, want ghost", v.String())
	}

	if v, _ := e.Attr("query"); v.String() != "q" {
		t.Errorf("query attr = %q, want q", v.String())
	}
}

func TestResolve_Scripts(t *testing.T) {
	r := newCountingRunner()
	s := NewStore(
		NewList("colors", "red\ngreen\n\nblue\n", "\n", "join_or"),
		NewGenerator("gen", "const"),
		mustQuery(t, "q", "#{colors} AND #{colors} #{gen}"),
		mustQuery(t, "p", "#{gen}!"),
	)

	if err := Resolve(t.Context(), s, WithRunner(r), WithLogger(log.Logger{})); err != nil {
		t.Fatal(err)
	}

	q, _ := s.Get("q")
	if got, want := q.String(), "(red OR green OR blue) AND (red OR green OR blue) generated"; got != want {
		t.Errorf("q = %q, want %q", got, want)
	}

	p, _ := s.Get("p")
	if p.String() != "generated!" {
		t.Errorf("p = %q", p.String())
	}

	if r.calls["join_or"] != 1 || r.calls["const"] != 1 {
		t.Errorf("script calls = %v, want each exactly once", r.calls)
	}
}

func TestResolve_UnreferencedFragmentsResolve(t *testing.T) {
	r := newCountingRunner()
	s := NewStore(
		NewList("l", "a,b", ",", "join_or"),
		NewGenerator("g", "const"),
	)

	if err := Resolve(t.Context(), s, WithRunner(r)); err != nil {
		t.Fatal(err)
	}

	for name, f := range s.All() {
		if !f.Resolved() {
			t.Errorf("%s not resolved", name)
		}
	}

	if got := s.String(); got != "l : (a OR b)\ng : generated\n" {
		t.Errorf("String() = %q", got)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	r := newCountingRunner()
	s := NewStore(
		NewGenerator("g", "const"),
		mustQuery(t, "q", "#{g}"),
	)

	for range 3 {
		if err := Resolve(t.Context(), s, WithRunner(r)); err != nil {
			t.Fatal(err)
		}
	}

	if r.calls["const"] != 1 {
		t.Errorf("generator ran %d times, want 1", r.calls["const"])
	}

	if got := s.String(); got != "g : generated\nq : generated\n" {
		t.Errorf("String() = %q", got)
	}
}

func TestResolve_ScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		frag   Fragment
		runner Runner
		want   error
	}{
		{
			name:   "runner failure",
			frag:   NewGenerator("g", "unknown"),
			runner: newCountingRunner(),
			want:   ErrScriptFailed,
		},
		{
			name:   "value not bound",
			frag:   NewGenerator("g", "missing"),
			runner: newCountingRunner(),
			want:   ErrScriptOutputMissing,
		},
		{
			name:   "value not a string",
			frag:   NewList("g", "a", "\n", "number"),
			runner: newCountingRunner(),
			want:   ErrScriptFailed,
		},
		{
			name: "nil value",
			frag: NewGenerator("g", "nil"),
			runner: RunnerFunc(func(context.Context, string, map[string]any) (map[string]any, error) {
				return map[string]any{ValueBinding: nil}, nil
			}),
			want: ErrScriptOutputMissing,
		},
		{
			name: "no runner",
			frag: NewGenerator("g", "const"),
			want: ErrScriptFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.runner != nil {
				opts = append(opts, WithRunner(tt.runner))
			}

			s := NewStore(tt.frag, mustQuery(t, "q", "#{g}"))

			err := Resolve(t.Context(), s, opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Resolve() error = %v, want %v", err, tt.want)
			}

			var e *Error
			if errors.As(err, &e) {
				if v, _ := e.Attr("name"); v.String() != "g" {
					t.Errorf("name attr = %q, want g", v.String())
				}
			}

			if tt.frag.Resolved() {
				t.Error("failed fragment reports resolved")
			}
		})
	}
}

func TestResolve_EmptyStore(t *testing.T) {
	if err := Resolve(t.Context(), NewStore()); err != nil {
		t.Errorf("Resolve(empty) = %v", err)
	}
}
