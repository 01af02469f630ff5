package cli

import (
	"io"
	"log/slog"
	"strings"
)

// newLogger builds the process logger. Diagnostics go to w (stderr) so that
// reports on stdout stay machine readable.
func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("service", "induct"))
}
