package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/q3/log"
)

// resolve is a [kong.ConfigurationLoader] for YAML settings files.
//
// Keys name flags. Hyphens and underscores are interchangeable, and nested
// mappings join their keys with a hyphen, so these are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Command-line flags override settings. A file that fails to decode is
// ignored with a warning.
func resolve(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any

	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring settings file", slog.Any("error", err))
		}

		return settings{}, nil
	}

	s := make(settings)
	s.flatten("", raw)

	return s, nil
}

// settings implements [kong.Resolver] over flattened YAML keys.
type settings map[string]any

// Validate implements [kong.Resolver].
func (settings) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (s settings) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := s[normalizeKey(flag.Name)]; ok {
		return value, nil
	}

	return nil, nil
}

func (s settings) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := normalizeKey(k)
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := v.(type) {
		case map[string]any:
			s.flatten(key, v)

		// Kong parses numbers from strings.
		case int, int64, uint64:
			s[key] = fmt.Sprint(v)
		case float64:
			s[key] = strconv.FormatFloat(v, 'f', -1, 64)

		default:
			s[key] = v
		}
	}
}

func normalizeKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(k), "_", "-")
}
