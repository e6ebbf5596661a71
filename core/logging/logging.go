package logging

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger builds a slog logger writing to w. An unparsable level falls back
// to warn; format is "json" or anything else for text.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	lvl := slog.LevelWarn
	if level != "" {
		// lvl is left untouched when the text does not parse
		_ = lvl.UnmarshalText([]byte(level))
	}
	opt := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opt)
	default:
		handler = slog.NewTextHandler(w, opt)
	}
	return slog.New(handler)
}

// Setup installs the logger from NewLogger as the slog default.
func Setup(w io.Writer, level, format string) {
	slog.SetDefault(NewLogger(w, level, format))
}
