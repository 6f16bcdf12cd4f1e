// Package logger provides structured logging for the application using the
// standard library's log/slog package, and carries request-scoped loggers
// through context.Context.
package logger
