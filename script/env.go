package script

// This file defines the built-in environment available to every script. The
// environment is initialized once per process and cloned on each run, so a
// script's input bindings never leak into the shared copy.
//
// Input bindings shadow built-in names.

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

//nolint:gochecknoglobals
var builtins = sync.OnceValue(func() map[string]any {
	return map[string]any{
		// List helpers.
		"q3": map[string]any{
			"quote":            quote,
			"trim":             trim,
			"normalize_spaces": normalizeSpaces,
			"uniq":             uniq,
			"join":             join,
			"join_or":          joinOr,
			"join_and":         joinAnd,
		},

		"file": map[string]any{
			"exists": fileExists,
			"isDir":  fileIsDir,
		},

		"path": map[string]any{
			"abs":  pathAbs,
			"cat":  pathCat,
			"base": filepath.Base,
		},

		// PATH-like string manipulation via mung.
		"mung": map[string]any{
			"prefix":   mungPrefix,
			"prefixif": mungPrefixIf,
		},
	}
})

// Builtins returns a copy of the top-level built-in names, sorted.
func Builtins() []string {
	return slices.Sorted(maps.Keys(builtins()))
}

// makeEnv returns the built-in environment extended with env() and inputs.
func makeEnv(processEnv map[string]string, inputs map[string]any) map[string]any {
	env := maps.Clone(builtins())
	env["env"] = envFunc(processEnv)

	maps.Copy(env, inputs)

	return env
}

// ---------------------------------------------------------------------------
// List helpers
// ---------------------------------------------------------------------------

// strs converts a script value into a list of strings. A lone string is a
// list of one; nil is empty.
func strs(v any) []string {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}

		return out
	default:
		return nil
	}
}

func quote(v any) []string {
	elems := strs(v)
	for i, e := range elems {
		elems[i] = `"` + e + `"`
	}

	return elems
}

func trim(v any) []string {
	elems := strs(v)
	for i, e := range elems {
		elems[i] = strings.TrimSpace(e)
	}

	return elems
}

func normalizeSpaces(v any) []string {
	elems := strs(v)
	for i, e := range elems {
		elems[i] = strings.Join(strings.Fields(e), " ")
	}

	return elems
}

// uniq drops consecutive duplicates.
func uniq(v any) []string { return slices.Compact(strs(v)) }

func join(v any, sep string) string { return strings.Join(strs(v), sep) }
func joinOr(v any) string           { return strings.Join(strs(v), " OR ") }
func joinAnd(v any) string          { return strings.Join(strs(v), " AND ") }

// ---------------------------------------------------------------------------
// Filesystem and path functions
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

// ---------------------------------------------------------------------------
// PATH-like string manipulation (mung)
// ---------------------------------------------------------------------------

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

func mungPrefixIf(
	key string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}

// ---------------------------------------------------------------------------
// Process environment
// ---------------------------------------------------------------------------

// processEnvMap converts "KEY=VALUE" entries to a map.
// A nil list reads os.Environ.
func processEnvMap(list []string) map[string]string {
	if list == nil {
		list = os.Environ()
	}

	m := make(map[string]string, len(list))

	for _, entry := range list {
		if key, value, ok := strings.Cut(entry, "="); ok {
			m[key] = value
		}
	}

	return m
}

func envFunc(processEnv map[string]string) func(string) string {
	return func(key string) string {
		return processEnv[key]
	}
}
