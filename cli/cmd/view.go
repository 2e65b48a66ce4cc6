package cmd

import (
	"context"
	"time"

	"github.com/ardnew/q3/cli/cmd/view"
	"github.com/ardnew/q3/log"
)

// View opens an interactive browser over a document that reloads whenever
// the file changes.
type View struct {
	Document `embed:""`

	Interval time.Duration `default:"500ms" help:"How often to check the file for changes."`
}

// Run executes the view command.
func (v *View) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	loader, err := v.Loader()
	if err != nil {
		return err
	}

	return view.Run(ctx, v.File, loader,
		view.WithLogger(log.Default()),
		view.WithInterval(v.Interval),
	)
}
