package fragment

import (
	"io"
	"iter"
	"slices"
	"strings"
)

// Store is an insertion-ordered collection of fragments keyed by name.
//
// A Store is not safe for concurrent use; resolution requires exclusive
// ownership.
type Store struct {
	order []Name
	index map[Name]Fragment
}

// NewStore returns an empty store.
func NewStore(frags ...Fragment) *Store {
	s := &Store{index: make(map[Name]Fragment, len(frags))}

	for _, f := range frags {
		s.Insert(f)
	}

	return s
}

// Insert adds f under its name. Inserting a name that already exists
// replaces the fragment but keeps its original position.
func (s *Store) Insert(f Fragment) {
	name := f.Name()

	if _, ok := s.index[name]; !ok {
		s.order = append(s.order, name)
	}

	s.index[name] = f
}

// Get returns the fragment named name.
func (s *Store) Get(name Name) (Fragment, bool) {
	f, ok := s.index[name]

	return f, ok
}

// Len returns the number of fragments.
func (s *Store) Len() int { return len(s.order) }

// Names returns every name in insertion order.
func (s *Store) Names() []Name { return slices.Clone(s.order) }

// All iterates fragments in insertion order.
func (s *Store) All() iter.Seq2[Name, Fragment] {
	return func(yield func(Name, Fragment) bool) {
		for _, name := range s.order {
			if !yield(name, s.index[name]) {
				return
			}
		}
	}
}

// Pending returns the names of queries that are not yet expanded.
func (s *Store) Pending() []Name {
	var raw []Name

	for name, f := range s.All() {
		if q, ok := f.(*Query); ok && !q.Expanded() {
			raw = append(raw, name)
		}
	}

	return raw
}

// Values returns each fragment's rendered text in insertion order.
func (s *Store) Values() iter.Seq2[Name, string] {
	return func(yield func(Name, string) bool) {
		for name, f := range s.All() {
			if !yield(name, f.String()) {
				return
			}
		}
	}
}

// WriteTo writes one "name : value" line per fragment.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())

	return int64(n), err
}

func (s *Store) String() string {
	lines := make([]string, 0, s.Len())

	for name, value := range s.Values() {
		lines = append(lines, string(name)+" : "+value)
	}

	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}
