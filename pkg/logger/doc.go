// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package and supports stdout output as well
// as size-rotated log files for the per-dispatch stream.
package logger
