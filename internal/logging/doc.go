// Package logging builds the shared slog loggers used across the daemon and
// CLI, with console and JSON handlers, file fan-out under the configured log
// directory, typed attribute helpers, and context-derived fields (job, item,
// step, correlation id).
package logging
