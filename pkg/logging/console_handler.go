package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

const (
	FORMAT_TEXT    = "text"
	FORMAT_CONSOLE = "console"
)

// Creates a colored handler for interactive terminals.
func NewConsoleHandler(out io.Writer, level slog.Level) slog.Handler {
	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           log.Level(level),
	})
}

// Creates the handler for the given format. Unknown formats use the readable text handler.
func NewHandler(format string, out io.Writer, level slog.Level) slog.Handler {
	if format == FORMAT_CONSOLE {
		return NewConsoleHandler(out, level)
	}
	return NewReadableTextHandler(out, &ReadableTextHandlerOptions{Level: level})
}
