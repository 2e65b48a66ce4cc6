// Package log provides a small leveled logging interface based on
// [log/slog].
//
// Loggers are configured with functional options at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
//	logger.Info("store resolved", slog.Int("fragments", n))
//
// The zero [Logger] discards everything. Library packages keep a Logger field
// that callers may set; only the command line configures real output.
//
// A package-level logger writing to standard error backs the functions
// [Debug], [Info], [Warn], [Error] and their Context variants. [Config]
// replaces its options.
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Two formats are supported: [FormatText]
// (colorized unless [WithPretty] is false) and [FormatJSON].
package log
