// Package logging assembles structured slog loggers and formatting helpers used
// across mediasort.
//
// It owns the console and JSON handlers, the fan-out that mirrors console
// output into the persistent log file, and context helpers that tag every line
// of an organize run with its run ID and stage. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
