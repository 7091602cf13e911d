package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// NewCLI returns a logger for scriptable commands: text to stderr, warnings and up
// unless verbose is set.
func NewCLI(w io.Writer, verbose bool) *log.Logger {
	l := log.New()
	l.SetOutput(w)
	l.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	l.SetLevel(log.WarnLevel)
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// NewTUI returns a logger that never writes to the terminal. With a path it appends
// JSON lines to that file; otherwise output is discarded.
func NewTUI(path string) (*log.Logger, func() error, error) {
	l := log.New()
	l.SetFormatter(&log.JSONFormatter{})
	if path == "" {
		l.SetOutput(io.Discard)
		l.SetLevel(log.WarnLevel)
		return l, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	l.SetOutput(f)
	l.SetLevel(log.DebugLevel)
	return l, f.Close, nil
}

// Discard returns a logger that drops everything (tests, library defaults).
func Discard() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}
