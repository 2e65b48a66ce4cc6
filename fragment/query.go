package fragment

import (
	"log/slog"
	"slices"
)

// Query is text that may embed references to other fragments.
//
// A query starts Raw and becomes Expanded once every reference has been
// substituted. Expanded is terminal.
type Query struct {
	name     Name
	source   string
	tokens   []Token
	rendered string
	expanded bool
}

// NewQuery parses source into a query. A source without references yields
// a query that is already expanded.
func NewQuery(name Name, source string) (*Query, error) {
	tokens, err := Parse(source)
	if err != nil {
		return nil, WrapError(err).With(slog.String("name", string(name)))
	}

	q := &Query{name: name, source: source, tokens: tokens}

	if len(q.References()) == 0 {
		q.expand(tokens)
	}

	return q, nil
}

func (*Query) fragment() {}

func (q *Query) Name() Name     { return q.name }
func (q *Query) Kind() Kind     { return KindQuery }
func (q *Query) Resolved() bool { return q.expanded }

// Expanded reports whether every reference has been substituted.
func (q *Query) Expanded() bool { return q.expanded }

// Source returns the original, unsubstituted text.
func (q *Query) Source() string { return q.source }

// Tokens returns a copy of the query's tokens. Once expanded, every token is
// a [Literal].
func (q *Query) Tokens() []Token { return slices.Clone(q.tokens) }

// References returns the names referenced by the query's current tokens in
// source order, including repeats.
func (q *Query) References() []Name {
	var refs []Name

	for _, t := range q.tokens {
		if t.Kind == Reference {
			refs = append(refs, Name(t.Text))
		}
	}

	return refs
}

func (q *Query) String() string {
	if !q.expanded {
		return q.source
	}

	return q.rendered
}

// expand commits fully literal tokens and the rendered text.
func (q *Query) expand(tokens []Token) {
	q.tokens = tokens
	q.rendered = Join(tokens)
	q.expanded = true
}
