package config

import (
	"context"
	"embed"
	"io"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
	"github.com/klauspost/readahead"
)

//go:embed example
var examples embed.FS

// Example returns an example document in format f.
func Example(f Format) ([]byte, error) {
	data, err := examples.ReadFile("example/q3" + f.Ext())
	if err != nil {
		return nil, ErrUnknownFormat.With(slog.String("format", f.String()))
	}

	return data, nil
}

// Decode reads a document in format f from r. The document has no path, so
// list files are read relative to the working directory.
func Decode(
	ctx context.Context,
	r io.Reader,
	f Format,
	opts ...Option,
) (*Document, error) {
	return decode(ctx, r, "", f, makeOptions(opts...))
}

func decode(
	ctx context.Context,
	r io.Reader,
	path string,
	f Format,
	o options,
) (*Document, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("path", path))
	}

	o.logger.TraceContext(ctx, "read document",
		slog.String("path", path),
		slog.String("format", f.String()),
		slog.Int("bytes", len(data)))

	var entries []Entry

	switch f {
	case FormatYAML:
		entries, err = decodeYAML(data)

	case FormatTOML:
		entries, err = decodeTOML(data)

	case FormatHCL:
		env := o.processEnv
		if env == nil {
			env = os.Environ()
		}

		entries, err = decodeHCL(data, path, env)

	default:
		err = ErrUnknownFormat.With(slog.String("format", f.String()))
	}

	if err != nil {
		return nil, err
	}

	doc := &Document{Path: path, Format: f, Entries: entries}

	if err := doc.validate(); err != nil {
		return nil, err
	}

	o.logger.DebugContext(ctx, "decoded document",
		slog.String("path", path),
		slog.Int("entries", len(entries)))

	return doc, nil
}

func (o options) formatFor(path string) (Format, error) {
	if o.format != nil {
		return *o.format, nil
	}

	return FormatFor(path)
}

// Load reads the document at path, inferring its format from the extension
// unless [WithFormat] is given.
// The file is held under a shared lock while it is read.
func Load(ctx context.Context, path string, opts ...Option) (*Document, error) {
	o := makeOptions(opts...)

	f, err := o.formatFor(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("path", path))
	}

	lock := flock.New(path)

	ok, err := lock.TryRLockContext(ctx, o.lockRetry)
	if err != nil || !ok {
		return nil, ErrLock.Wrap(err).With(slog.String("path", path))
	}

	defer func() { _ = lock.Unlock() }()

	file, err := os.Open(path)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("path", path))
	}

	defer file.Close()

	return decode(ctx, file, path, f, o)
}

// Write stores the example document for format f at path under an exclusive
// lock. An existing file is replaced only with [WithOverwrite].
func Write(ctx context.Context, path string, f Format, opts ...Option) error {
	o := makeOptions(opts...)

	data, err := Example(f)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !o.overwrite {
		return ErrExists.With(slog.String("path", path))
	}

	lock := flock.New(path)

	ok, err := lock.TryLockContext(ctx, o.lockRetry)
	if err != nil || !ok {
		return ErrLock.Wrap(err).With(slog.String("path", path))
	}

	defer func() { _ = lock.Unlock() }()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ErrWrite.Wrap(err).With(slog.String("path", path))
	}

	o.logger.InfoContext(ctx, "wrote example document",
		slog.String("path", path),
		slog.String("format", f.String()))

	return nil
}
