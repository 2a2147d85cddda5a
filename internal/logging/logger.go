// Package logging provides the formatted logger shared by the control
// server and the agent tooling, with color support and optional wire
// tracing of HTTP requests and responses.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ANSI color codes used when color output is enabled.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// Logger writes formatted, optionally colored log lines. All methods are
// safe to call on a nil receiver, which discards the message.
type Logger struct {
	mu       sync.Mutex
	verbose  bool
	useColor bool
	wireMode bool
	writer   io.Writer
}

// NewLogger creates a logger writing to stdout.
func NewLogger(verbose, useColor, wireMode bool) *Logger {
	return NewLoggerWithWriter(verbose, useColor, wireMode, os.Stdout)
}

// NewLoggerWithWriter creates a logger writing to the given writer.
// Used by tests to capture output.
func NewLoggerWithWriter(verbose, useColor, wireMode bool, w io.Writer) *Logger {
	return &Logger{
		verbose:  verbose,
		useColor: useColor,
		wireMode: wireMode,
		writer:   w,
	}
}

// SetVerbose toggles verbose output at runtime.
func (l *Logger) SetVerbose(verbose bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
}

// SetWriter replaces the output writer.
func (l *Logger) SetWriter(w io.Writer) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

func (l *Logger) log(color, prefix, format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writer == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.useColor && color != "" {
		fmt.Fprintf(l.writer, "%s%s%s%s\n", color, prefix, msg, colorReset)
	} else {
		fmt.Fprintf(l.writer, "%s%s\n", prefix, msg)
	}
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("", "", format, args...)
}

// InfoVerbose logs an informational message only in verbose mode.
func (l *Logger) InfoVerbose(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	l.log("", "", format, args...)
}

// Success logs a success message.
func (l *Logger) Success(format string, args ...interface{}) {
	l.log(colorGreen, "✓ ", format, args...)
}

// Warning logs a warning message.
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(colorYellow, "⚠ ", format, args...)
}

// WarningVerbose logs a warning only in verbose mode.
func (l *Logger) WarningVerbose(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	l.log(colorYellow, "⚠ ", format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(colorRed, "✗ ", format, args...)
}

// Debug logs a debug message only in verbose mode.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	l.log(colorGray, "  ", format, args...)
}

// Request traces an inbound or outbound HTTP request in wire mode.
func (l *Logger) Request(format string, args ...interface{}) {
	if l == nil || !l.wireMode {
		return
	}
	l.log(colorCyan, "→ ", format, args...)
}

// Response traces an HTTP response in wire mode.
func (l *Logger) Response(format string, args ...interface{}) {
	if l == nil || !l.wireMode {
		return
	}
	l.log(colorCyan, "← ", format, args...)
}
