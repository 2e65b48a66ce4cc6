package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/q3/config"
	"github.com/ardnew/q3/log"
)

// Init writes an example document.
type Init struct {
	File   string `arg:"" default:"q3.toml" help:"Path of the document to create." name:"file" type:"path"`
	Format string `default:"" enum:",yaml,toml,hcl" help:"Document format (default: from file extension)."`
	Force  bool   `help:"Overwrite an existing file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	f, err := i.format()
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", i.File)).Wrap(err)
	}

	err = config.Write(ctx, i.File, f,
		config.WithLogger(log.Default()),
		config.WithOverwrite(i.Force),
	)

	switch {
	case errors.Is(err, config.ErrExists):
		return ErrWriteConfig.
			With(slog.String("file", i.File)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)

	case err != nil:
		return ErrWriteConfig.With(slog.String("file", i.File)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized document",
		slog.String("path", i.File),
		slog.String("format", f.String()),
	)

	return nil
}

// format returns the requested format, else the one implied by the file
// extension, else [config.DefaultFormat].
func (i *Init) format() (config.Format, error) {
	if i.Format != "" {
		return config.ParseFormat(i.Format)
	}

	if f, err := config.FormatFor(i.File); err == nil {
		return f, nil
	}

	return config.DefaultFormat, nil
}
