package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the default slog logger. While a TUI owns the terminal the
// log stream goes to a file (or is discarded) instead of stderr, so log
// lines never tear the rendered view.
func Setup(verbose bool, logFile string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		w = f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

// Discard routes the default logger to nowhere. The plan dialog uses this
// when no log file is configured.
func Discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
