// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Logger defines the leveled logging interface used throughout the resolver.
//
// The answer-source resolution flow distinguishes informational events
// (a source probe coming up empty) from warnings (a mount command failing,
// a fingerprint that could not be persisted), so implementations must keep
// the levels apart rather than funnel everything through one stream.
type Logger interface {
	// Debugf logs fine-grained resolution progress.
	Debugf(format string, v ...any)
	// Infof logs normal control-flow events, such as a source being skipped.
	Infof(format string, v ...any)
	// Warnf logs recoverable problems that do not abort resolution.
	Warnf(format string, v ...any)
	// Errorf logs terminal failures before they are returned to the caller.
	Errorf(format string, v ...any)
}

// SlogLogger implements Logger on top of log/slog with a tint handler,
// producing human-readable, optionally colored output. The installer runs
// it against stderr so that stdout stays reserved for the answer document.
type SlogLogger struct{ s *slog.Logger }

// Options configures a SlogLogger.
type Options struct {
	// Debug lowers the handler threshold to include Debugf output.
	Debug bool
	// NoColor disables ANSI colors, for logs captured to a file.
	NoColor bool
}

// New creates a SlogLogger writing to w.
func New(w io.Writer, opts Options) *SlogLogger {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    opts.NoColor,
	})
	return &SlogLogger{s: slog.New(h)}
}

// Debugf logs at debug level using fmt.Sprintf semantics.
func (l *SlogLogger) Debugf(format string, v ...any) { l.s.Debug(fmt.Sprintf(format, v...)) }

// Infof logs at info level using fmt.Sprintf semantics.
func (l *SlogLogger) Infof(format string, v ...any) { l.s.Info(fmt.Sprintf(format, v...)) }

// Warnf logs at warn level using fmt.Sprintf semantics.
func (l *SlogLogger) Warnf(format string, v ...any) { l.s.Warn(fmt.Sprintf(format, v...)) }

// Errorf logs at error level using fmt.Sprintf semantics.
func (l *SlogLogger) Errorf(format string, v ...any) { l.s.Error(fmt.Sprintf(format, v...)) }

// Nop is a Logger that discards everything. Useful as a default in library
// entry points and in tests that do not assert on log output.
type Nop struct{}

// Debugf discards the message.
func (Nop) Debugf(string, ...any) {}

// Infof discards the message.
func (Nop) Infof(string, ...any) {}

// Warnf discards the message.
func (Nop) Warnf(string, ...any) {}

// Errorf discards the message.
func (Nop) Errorf(string, ...any) {}
