// Package cli contains the command line interface for q3.
//
// # Usage
//
//	q3 [flags] <command> FILE
//
// Commands:
//
//   - show: resolve FILE and print "name : value" for every fragment, or only
//     one value with --get (show is the default command)
//   - export: resolve FILE and encode every fragment as JSON, YAML, TOML or
//     MessagePack
//   - view: browse FILE interactively, reloading whenever it changes
//   - init: write an example document
//
// # Settings
//
// Flag defaults are read from the settings files in the user configuration
// directory (e.g. ~/.config/q3/config.yaml or config.json). Keys name flags,
// and nested YAML mappings join their keys with a hyphen:
//
//	log:
//	  level: debug
//	  caller: true
//	to: yaml
//
// Flags given on the command line take precedence.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o q3 .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/q3/pprof)
//
// # Examples
//
//	# Write an example document and print its queries
//	q3 init q3.toml
//	q3 q3.toml
//
//	# Print a single query for use in a script
//	q3 show q3.toml --get search
//
//	# Export as YAML with debug logging
//	q3 --log-level=debug export q3.toml --to yaml
package cli
