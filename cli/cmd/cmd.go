package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/ardnew/q3/config"
	"github.com/ardnew/q3/fragment"
	"github.com/ardnew/q3/log"
	"github.com/ardnew/q3/script"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// Document selects a q3 document and, optionally, its format.
type Document struct {
	File   string `arg:""                  help:"Document declaring lists, generators and queries." name:"file" type:"existingfile"`
	Format string `enum:",yaml,toml,hcl"   help:"Document format (default: from file extension)."   default:""`
}

// options returns the config options selected by d.
func (d *Document) options() ([]config.Option, error) {
	opts := []config.Option{config.WithLogger(log.Default())}

	if d.Format != "" {
		f, err := config.ParseFormat(d.Format)
		if err != nil {
			return nil, err
		}

		opts = append(opts, config.WithFormat(f))
	}

	return opts, nil
}

// Loader returns a function that loads and resolves the document at a path.
func (d *Document) Loader() (func(context.Context, string) (*fragment.Store, error), error) {
	opts, err := d.options()
	if err != nil {
		return nil, err
	}

	runner := script.New(script.WithLogger(log.Default()))

	return func(ctx context.Context, path string) (*fragment.Store, error) {
		return load(ctx, path, runner, opts...)
	}, nil
}

// Resolve loads and resolves d.File.
func (d *Document) Resolve(ctx context.Context) (*fragment.Store, error) {
	loader, err := d.Loader()
	if err != nil {
		return nil, err
	}

	return loader(ctx, d.File)
}

func load(
	ctx context.Context,
	path string,
	runner fragment.Runner,
	opts ...config.Option,
) (*fragment.Store, error) {
	doc, err := config.Load(ctx, path, opts...)
	if err != nil {
		return nil, err
	}

	store, err := doc.Store(ctx)
	if err != nil {
		return nil, err
	}

	err = fragment.Resolve(ctx, store,
		fragment.WithRunner(runner),
		fragment.WithLogger(log.Default()),
	)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "resolved document",
		slog.String("path", path),
		slog.Int("fragments", store.Len()),
	)

	return store, nil
}
