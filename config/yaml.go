package config

import (
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/q3/fragment"
)

type yamlItem struct {
	Value     string `yaml:"value,omitempty"`
	File      string `yaml:"file,omitempty"`
	Separator string `yaml:"separator,omitempty"`
	Script    string `yaml:"script,omitempty"`
}

// yamlDocument keeps each section as a MapSlice so entries retain document
// order.
type yamlDocument struct {
	List      yaml.MapSlice `yaml:"list,omitempty"`
	Generator yaml.MapSlice `yaml:"generator,omitempty"`
	Query     yaml.MapSlice `yaml:"query,omitempty"`
}

func decodeYAML(data []byte) ([]Entry, error) {
	var doc yamlDocument

	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", "yaml"))
	}

	var entries []Entry

	for _, sec := range []struct {
		items yaml.MapSlice
		kind  fragment.Kind
	}{
		{doc.List, fragment.KindList},
		{doc.Generator, fragment.KindGenerator},
		{doc.Query, fragment.KindQuery},
	} {
		for _, mi := range sec.items {
			e, err := yamlEntry(mi, sec.kind)
			if err != nil {
				return nil, err
			}

			entries = append(entries, e)
		}
	}

	return entries, nil
}

// yamlEntry decodes one section item by re-marshaling its generic value into
// a yamlItem.
func yamlEntry(mi yaml.MapItem, kind fragment.Kind) (Entry, error) {
	name := fmt.Sprint(mi.Key)

	b, err := yaml.Marshal(mi.Value)
	if err != nil {
		return Entry{}, ErrDecode.Wrap(err).With(slog.String("name", name))
	}

	var it yamlItem

	if err := yaml.UnmarshalWithOptions(b, &it, yaml.DisallowUnknownField()); err != nil {
		return Entry{}, ErrDecode.Wrap(err).With(
			slog.String("name", name),
			slog.String("kind", kind.String()),
		)
	}

	return Entry{
		Name:      name,
		Kind:      kind,
		Value:     it.Value,
		File:      it.File,
		Separator: it.Separator,
		Script:    it.Script,
	}, nil
}
