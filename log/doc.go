// Package log provides a concurrency-safe structured logger built on
// [log/slog].
//
// A [Logger] is an immutable value. Configuration is applied with functional
// options at creation time and a reconfigured copy is produced with
// [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//	logger.Debug("render file", slog.String("path", "src/app.py"))
//
// All logging methods accept typed [slog.Attr] values only.
//
// # Levels
//
// In addition to the four [slog] levels the package defines [LevelTrace],
// used for per-token and per-node diagnostics of the template engine.
//
// # Default logger
//
// Package-level functions ([Info], [DebugContext], ...) write to a default
// logger that writes to standard error. [Config] atomically replaces it with a
// reconfigured copy; the CLI calls it while parsing flags.
package log
