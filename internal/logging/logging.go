// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Format "text" renders through
// charmbracelet/log (colored when w is a terminal); "json" emits one JSON
// object per record.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	switch format {
	case "", "text":
		charm := log.NewWithOptions(w, log.Options{
			Level:           log.Level(lvl),
			Formatter:       log.TextFormatter,
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
		})
		return slog.New(charm), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
