package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns a slog.Logger writing to w. LOG_LEVEL (debug, info, warn,
// error) sets the level unless debug is set. LOG_FORMAT=json selects the JSON
// handler, otherwise the text handler is used.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo

	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if debug {
		level = slog.LevelDebug
	}

	options := slog.HandlerOptions{Level: level}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		return slog.New(slog.NewJSONHandler(w, &options))
	}

	return slog.New(slog.NewTextHandler(w, &options))
}
