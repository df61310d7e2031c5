package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New builds a text or JSON logger writing to stdout.
func New(format string, debug bool) (*slog.Logger, error) {
	return newLogger(os.Stdout, format, debug)
}

func newLogger(w io.Writer, format string, debug bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}
