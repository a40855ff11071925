// Package logging provides structured logging utilities shared by all
// falconctl packages.
//
// It wraps the standard library slog package with project defaults: JSON
// output to stderr, module/version context on every record, LOG_LEVEL
// environment configuration, and source location tracking for debug logs.
//
// Diagnostic logging is separate from user-facing console output: anything an
// operator is meant to read goes through the executor sink, while slog carries
// machine-readable diagnostics.
//
// Usage:
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("falconctl", version)
//	    slog.Info("starting run", "components", selected)
//	}
//
// Supported levels (case-insensitive): DEBUG, INFO (default), WARN/WARNING,
// ERROR. Set via LOG_LEVEL:
//
//	LOG_LEVEL=debug falconctl deploy
package logging
