// Package logging builds the zerolog loggers used across the client. The
// TUI owns the terminal, so the default sink is a file under the user
// state directory rather than stdout.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to stderr. Used by non-TUI paths
// and as a fallback when the log file cannot be opened.
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(output).With().Timestamp().Logger()
}

// NewWithWriter returns a structured logger writing to w.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// NewFile opens (or creates) a log file and returns a logger writing to
// it, plus a close function for shutdown.
func NewFile(path string) (zerolog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWithWriter(f), f.Close, nil
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
