// Package logging builds the slog logger shared by the binaries.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns a logger on stdout: text on a terminal, JSON otherwise. Verbose
// enables debug output.
func New(verbose bool) (*slog.Logger, *slog.LevelVar) {
	return NewWithWriter(os.Stdout, isTerminal(os.Stdout), verbose)
}

// NewWithWriter returns a logger on w, using the text handler when text is true.
func NewWithWriter(w io.Writer, text, verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler), level
}

// Install makes logger the process default, including for the log package.
func Install(logger *slog.Logger, level *slog.LevelVar) {
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
