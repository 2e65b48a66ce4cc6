package view

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/q3/fragment"
	"github.com/ardnew/q3/log"
)

// DefaultInterval is how often the document is checked for changes.
const DefaultInterval = 500 * time.Millisecond

// Loader loads and resolves the document at path.
type Loader func(ctx context.Context, path string) (*fragment.Store, error)

type options struct {
	logger   log.Logger
	interval time.Duration
	teaOpts  []tea.ProgramOption
}

// Option configures [Run].
type Option func(*options)

// WithLogger sets the logger used to trace the viewer.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithInterval sets how often the document is checked for changes.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.interval = d
		}
	}
}

// WithProgramOptions passes extra options to the Bubble Tea program.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(o *options) { o.teaOpts = append(o.teaOpts, opts...) }
}

// Run loads the document at path and browses it until the user quits,
// reloading whenever the file changes. A document that fails to load
// initially is returned as an error; later failures are shown in the footer
// while the last good store stays on screen.
func Run(ctx context.Context, path string, load Loader, opts ...Option) (err error) {
	o := options{interval: DefaultInterval}

	for _, opt := range opts {
		opt(&o)
	}

	store, err := load(ctx, path)
	if err != nil {
		return err
	}

	w, err := newWatcher(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	o.logger.TraceContext(ctx, "view start",
		slog.String("path", path),
		slog.Duration("interval", o.interval),
		slog.Int("fragments", store.Len()))

	m := newModel(ctx, path, load, store, o.logger)

	p := tea.NewProgram(m,
		append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, o.teaOpts...)...)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel(nil)

		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}

		return err
	})

	g.Go(func() error {
		return w.watch(gctx, o.interval, p.Send)
	})

	return g.Wait()
}
