package config

import (
	"log/slog"

	"github.com/BurntSushi/toml"

	"github.com/ardnew/q3/fragment"
)

type tomlItem struct {
	Value     string `toml:"value"`
	File      string `toml:"file"`
	Separator string `toml:"separator"`
	Script    string `toml:"script"`
}

type tomlDocument struct {
	List      map[string]tomlItem `toml:"list"`
	Generator map[string]tomlItem `toml:"generator"`
	Query     map[string]tomlItem `toml:"query"`
}

var tomlSections = []struct {
	key  string
	kind fragment.Kind
}{
	{"list", fragment.KindList},
	{"generator", fragment.KindGenerator},
	{"query", fragment.KindQuery},
}

func decodeTOML(data []byte) ([]Entry, error) {
	var doc tomlDocument

	meta, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("format", "toml"))
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, ErrDecode.With(
			slog.String("format", "toml"),
			slog.String("unknown_key", undecoded[0].String()),
		)
	}

	// Go maps lose document order; recover it from the key metadata.
	order := make(map[string][]string, len(tomlSections))

	for _, key := range meta.Keys() {
		if len(key) == 2 {
			order[key[0]] = append(order[key[0]], key[1])
		}
	}

	var entries []Entry

	for _, sec := range tomlSections {
		var items map[string]tomlItem

		switch sec.kind {
		case fragment.KindList:
			items = doc.List
		case fragment.KindGenerator:
			items = doc.Generator
		case fragment.KindQuery:
			items = doc.Query
		}

		for _, name := range order[sec.key] {
			it := items[name]
			entries = append(entries, Entry{
				Name:      name,
				Kind:      sec.kind,
				Value:     it.Value,
				File:      it.File,
				Separator: it.Separator,
				Script:    it.Script,
			})
		}
	}

	return entries, nil
}
