// SPDX-License-Identifier: MPL-2.0

// Package logging builds the structured loggers used by wasmforge.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Level names accepted by --log-level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Options configures a logger.
type Options struct {
	// Output defaults to stderr.
	Output io.Writer
	// Level is one of the level names. Unknown names fall back to warn.
	Level string
}

// New returns a text logger configured by opts.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		Level: ParseLevel(opts.Level),
	})
}

// Discard returns a logger that drops every message.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel maps a level name to a log level, defaulting to warn.
func ParseLevel(name string) log.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DebugLevel:
		return log.DebugLevel
	case InfoLevel:
		return log.InfoLevel
	case ErrorLevel:
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// IsValidLevel reports whether name is one of the accepted level names.
func IsValidLevel(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	default:
		return false
	}
}
