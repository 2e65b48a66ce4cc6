// Package cmd implements the q3 subcommands: show, export, view and init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the settings file.
	ConfigIdentifier = "config"
)
