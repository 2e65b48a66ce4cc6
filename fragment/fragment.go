package fragment

import "context"

// Name identifies a fragment within a [Store].
type Name string

// Kind enumerates the fragment variants.
type Kind uint8

const (
	KindQuery     Kind = iota // query
	KindList                  // list
	KindGenerator             // generator
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindList:
		return "list"
	case KindGenerator:
		return "generator"
	default:
		return "unknown"
	}
}

// Fragment is a named unit of content.
//
// The set of implementations is closed: [*List], [*Generator], and [*Query].
// Consumers switch on the concrete type.
type Fragment interface {
	// Name returns the fragment's identifier.
	Name() Name
	// Kind returns the variant tag.
	Kind() Kind
	// Resolved reports whether the fragment holds its final value.
	Resolved() bool
	// String renders the fragment. An unresolved query renders its source
	// text; an unresolved list or generator renders the empty string.
	String() string

	fragment()
}

// ValueBinding is the script binding that carries a fragment's input and
// receives its result.
const ValueBinding = "value"

// Runner executes a script with named input bindings and returns the
// bindings it produced. Implementations block until the script finishes.
type Runner interface {
	Run(ctx context.Context, script string, inputs map[string]any) (map[string]any, error)
}

// RunnerFunc adapts a function to the [Runner] interface.
type RunnerFunc func(ctx context.Context, script string, inputs map[string]any) (map[string]any, error)

// Run calls f.
func (f RunnerFunc) Run(
	ctx context.Context,
	script string,
	inputs map[string]any,
) (map[string]any, error) {
	return f(ctx, script, inputs)
}
