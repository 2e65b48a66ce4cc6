package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardnew/q3/fragment"
	"github.com/ardnew/q3/log"
)

// Export resolves a document and writes every fragment's name and value as
// an ordered mapping.
type Export struct {
	Document `embed:""`

	To     string `default:"json" enum:"json,yaml,toml,msgpack" help:"Output encoding."                   short:"t"`
	Indent int    `default:"2"                                   help:"Indent width for JSON and YAML."    short:"i"`
	Output string `                                              help:"Write to PATH instead of stdout." placeholder:"PATH" short:"o" type:"path"`
}

// Run executes the export command.
func (e *Export) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := e.Resolve(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if err := e.encode(&buf, store); err != nil {
		return ErrExport.Wrap(err).With(slog.String("to", e.To))
	}

	if e.Output == "" {
		if _, err := buf.WriteTo(stdout(ctx)); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if err := os.WriteFile(e.Output, buf.Bytes(), 0o644); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", e.Output))
	}

	log.DebugContext(ctx, "exported fragments",
		slog.String("path", e.Output),
		slog.String("to", e.To),
		slog.Int("fragments", store.Len()),
	)

	return nil
}

func (e *Export) encode(w io.Writer, store *fragment.Store) error {
	switch e.To {
	case "yaml":
		return encodeYAML(w, store, e.Indent)
	case "toml":
		return encodeTOML(w, store)
	case "msgpack":
		return encodeMsgpack(w, store)
	default:
		return encodeJSON(w, store, e.Indent)
	}
}

// encodeJSON writes a single object whose members follow store order.
func encodeJSON(w io.Writer, store *fragment.Store, indent int) error {
	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true

	for name, value := range store.Values() {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		k, err := json.Marshal(string(name))
		if err != nil {
			return err
		}

		v, err := json.Marshal(value)
		if err != nil {
			return err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	out := &buf

	if indent > 0 {
		out = new(bytes.Buffer)
		if err := json.Indent(out, buf.Bytes(), "", strings.Repeat(" ", indent)); err != nil {
			return err
		}
	}

	out.WriteByte('\n')

	_, err := out.WriteTo(w)

	return err
}

func encodeYAML(w io.Writer, store *fragment.Store, indent int) error {
	ms := make(yaml.MapSlice, 0, store.Len())

	for name, value := range store.Values() {
		ms = append(ms, yaml.MapItem{Key: string(name), Value: value})
	}

	opts := []yaml.EncodeOption{yaml.UseLiteralStyleIfMultiline(true)}
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	}

	b, err := yaml.MarshalWithOptions(ms, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(b)

	return err
}

// encodeTOML writes one key per fragment. Each key is encoded on its own
// since TOML tables have no order of their own.
func encodeTOML(w io.Writer, store *fragment.Store) error {
	enc := toml.NewEncoder(w)

	for name, value := range store.Values() {
		if err := enc.Encode(map[string]string{string(name): value}); err != nil {
			return err
		}
	}

	return nil
}

func encodeMsgpack(w io.Writer, store *fragment.Store) error {
	enc := msgpack.NewEncoder(w)

	if err := enc.EncodeMapLen(store.Len()); err != nil {
		return err
	}

	for name, value := range store.Values() {
		if err := enc.EncodeString(string(name)); err != nil {
			return err
		}

		if err := enc.EncodeString(value); err != nil {
			return err
		}
	}

	return nil
}
