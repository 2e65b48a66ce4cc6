package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/ardnew/q3/fragment"
)

// Show resolves a document and prints every fragment as "name : value", or
// the value of a single fragment with --get.
type Show struct {
	Document `embed:""`

	Get   string `help:"Print only the value of fragment NAME." placeholder:"NAME" short:"g"`
	Color string `default:"auto" enum:"auto,always,never" help:"Colorize fragment names."`
}

// Run executes the show command.
func (s *Show) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := s.Resolve(ctx)
	if err != nil {
		return err
	}

	out := stdout(ctx)

	if s.Get != "" {
		return s.printValue(out, store)
	}

	return s.printAll(out, store)
}

func (s *Show) printValue(w io.Writer, store *fragment.Store) error {
	f, ok := store.Get(fragment.Name(s.Get))
	if !ok {
		return ErrNoSuchName.With(
			slog.String("name", s.Get),
			slog.String("file", s.File),
		)
	}

	if _, err := fmt.Fprintln(w, f.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (s *Show) printAll(w io.Writer, store *fragment.Store) error {
	name := color.New(color.FgCyan, color.Bold)

	switch s.Color {
	case "always":
		name.EnableColor()
	case "never":
		name.DisableColor()
	default:
		if isTerminal(w) {
			name.EnableColor()
		} else {
			name.DisableColor()
		}
	}

	for n, value := range store.Values() {
		if _, err := fmt.Fprintf(w, "%s : %s\n", name.Sprint(string(n)), value); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
