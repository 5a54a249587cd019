//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: https://github.com/rbmk-project/rbmk/blob/v0.17.0/pkg/x/netcore/dialer.go
//

package relay

import "log/slog"

// SLogger abstracts the [*slog.Logger] behavior.
//
// By using an abstraction we allow for unit testing and alternative implementations.
//
// This package uses two log levels:
//   - Info for lifecycle and protocol events (ticket queue, connect, close,
//     command exchange, raw command request/response)
//   - Debug for per-I/O events (read, write, set deadline)
//
// The [*slog.Logger] type satisfies this interface.
type SLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// DefaultSLogger returns the default [SLogger] to use.
//
// The default is a no-op logger that discards all output. This follows the
// library convention of not writing to stdout/stderr unless explicitly configured.
//
// Use a custom [*slog.Logger] for emitting logs.
func DefaultSLogger() SLogger {
	return discardSLogger{}
}

// discardSLogger is a no-op [SLogger] that discards all log messages.
type discardSLogger struct{}

var _ SLogger = discardSLogger{}

// Debug implements [SLogger].
func (discardSLogger) Debug(msg string, args ...any) {
	// nothing
}

// Info implements [SLogger].
func (discardSLogger) Info(msg string, args ...any) {
	// nothing
}

// withSpanID returns an [SLogger] appending a spanID attribute to every
// entry, so that all the events of one [Execute] can be correlated.
//
// Unlike [*slog.Logger.With], this works with any [SLogger].
func withSpanID(logger SLogger, spanID string) SLogger {
	return spanSLogger{logger: logger, spanID: spanID}
}

// spanSLogger is the [SLogger] returned by [withSpanID].
type spanSLogger struct {
	logger SLogger
	spanID string
}

var _ SLogger = spanSLogger{}

// Debug implements [SLogger].
func (l spanSLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, append(args, slog.String("spanID", l.spanID))...)
}

// Info implements [SLogger].
func (l spanSLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, append(args, slog.String("spanID", l.spanID))...)
}
