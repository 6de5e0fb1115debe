// Package logging builds the logrus logger shared by the CLI, the HTTP
// server and the parser diagnostics.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// Level is a logrus level name. Empty means info.
	Level string
	// Format is "text" or "json". Empty means text.
	Format string
	// Out receives log lines. Nil means stderr.
	Out io.Writer
}

// New returns a logger configured by opts.
func New(opts Options) (*logrus.Logger, error) {
	lvl := logrus.InfoLevel
	if opts.Level != "" {
		var err error
		lvl, err = logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	var formatter logrus.Formatter
	switch strings.ToLower(opts.Format) {
	case "", "text":
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	case "json":
		formatter = &logrus.JSONFormatter{}
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	return &logrus.Logger{
		Out:       out,
		Formatter: formatter,
		Hooks:     make(logrus.LevelHooks),
		Level:     lvl,
	}, nil
}

// Discard returns a logger that drops everything. The TUI uses it so log
// lines never land on the screen it owns.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// OpenFile opens path for appending log lines.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
