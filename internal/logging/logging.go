// Package logging sets up slog for the visitor register and provides the
// request id and request logging middleware.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup installs the default logger on stdout.
func Setup(devMode bool) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, devMode)))
}

// NewHandler returns a text handler at debug level in dev mode and a JSON
// handler at info level otherwise.
func NewHandler(w io.Writer, devMode bool) slog.Handler {
	if devMode {
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}
