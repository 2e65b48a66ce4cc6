package config

//go:generate go tool stringer --linecomment --type Format --output format_string.go

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// Format identifies a document encoding.
type Format int

const (
	FormatYAML Format = iota // yaml
	FormatTOML               // toml
	FormatHCL                // hcl
)

// DefaultFormat is used when none is given and the path has no known
// extension.
const DefaultFormat = FormatTOML

// Formats returns the names of every supported format.
func Formats() []string {
	return []string{FormatYAML.String(), FormatTOML.String(), FormatHCL.String()}
}

// ParseFormat returns the format named s, ignoring case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml", "q3":
		return FormatTOML, nil
	case "hcl":
		return FormatHCL, nil
	default:
		return 0, ErrUnknownFormat.With(slog.String("format", s))
	}
}

// FormatFor infers a format from the extension of path.
func FormatFor(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, ErrUnknownFormat.With(slog.String("path", path))
	}

	f, err := ParseFormat(ext)
	if err != nil {
		return 0, ErrUnknownFormat.With(slog.String("path", path))
	}

	return f, nil
}

// Ext returns the canonical file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + f.String()
}
