package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/q3/fragment"
)

// DefaultSeparator splits list data when an entry names no separator.
const DefaultSeparator = "\n"

// Entry is one fragment declaration.
//
// A query uses Value. A list uses exactly one of Value or File, with an
// optional Separator and Script. A generator uses Script.
type Entry struct {
	Name      string
	Value     string
	File      string
	Separator string
	Script    string
	Kind      fragment.Kind
}

// Document is a decoded configuration file.
type Document struct {
	Path    string
	Entries []Entry
	Format  Format
}

// Lists returns the list entries in document order.
func (d *Document) Lists() []Entry { return d.filter(fragment.KindList) }

// Generators returns the generator entries in document order.
func (d *Document) Generators() []Entry { return d.filter(fragment.KindGenerator) }

// Queries returns the query entries in document order.
func (d *Document) Queries() []Entry { return d.filter(fragment.KindQuery) }

func (d *Document) filter(kind fragment.Kind) []Entry {
	var out []Entry

	for _, e := range d.Entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}

	return out
}

// validate normalizes entries in place and rejects inconsistent ones.
func (d *Document) validate() error {
	seen := make(map[string]fragment.Kind, len(d.Entries))

	for i := range d.Entries {
		e := &d.Entries[i]

		if prev, ok := seen[e.Name]; ok {
			return ErrDuplicateName.With(
				slog.String("name", e.Name),
				slog.String("first", prev.String()),
				slog.String("second", e.Kind.String()),
			)
		}

		seen[e.Name] = e.Kind

		if err := e.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (e *Entry) validate() error {
	invalid := func(reason string) error {
		return ErrInvalidEntry.With(
			slog.String("name", e.Name),
			slog.String("kind", e.Kind.String()),
			slog.String("reason", reason),
		)
	}

	if e.Name == "" || strings.ContainsAny(e.Name, "{} \t") {
		return invalid("name cannot be referenced")
	}

	switch e.Kind {
	case fragment.KindQuery:
		if e.File != "" || e.Separator != "" || e.Script != "" {
			return invalid("query takes only value")
		}

	case fragment.KindList:
		if (e.Value == "") == (e.File == "") {
			return invalid("list needs exactly one of value or file")
		}

		if e.Separator == "" {
			e.Separator = DefaultSeparator
		}

	case fragment.KindGenerator:
		if e.Script == "" {
			return invalid("generator needs a script")
		}

		if e.Value != "" || e.File != "" || e.Separator != "" {
			return invalid("generator takes only script")
		}
	}

	return nil
}

// Store builds an unresolved fragment store: lists first, then generators,
// then queries, each in document order. List files are read relative to the
// document's directory.
func (d *Document) Store(ctx context.Context) (*fragment.Store, error) {
	store := fragment.NewStore()

	for _, e := range d.Lists() {
		raw := e.Value

		if e.File != "" {
			data, err := d.readFile(ctx, e.File)
			if err != nil {
				return nil, err
			}

			raw = string(data)
		}

		store.Insert(fragment.NewList(fragment.Name(e.Name), raw, e.Separator, e.Script))
	}

	for _, e := range d.Generators() {
		store.Insert(fragment.NewGenerator(fragment.Name(e.Name), e.Script))
	}

	for _, e := range d.Queries() {
		q, err := fragment.NewQuery(fragment.Name(e.Name), e.Value)
		if err != nil {
			return nil, err
		}

		store.Insert(q)
	}

	return store, nil
}

func (d *Document) readFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrRead.Wrap(err)
	}

	path := name
	if !filepath.IsAbs(path) && d.Path != "" {
		path = filepath.Join(filepath.Dir(d.Path), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("path", path))
	}

	return data, nil
}
