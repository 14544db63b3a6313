// Package logging builds the zerolog logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	timeFormat = "15:04:05.000"
)

// New returns a logger writing to w at level. format is FormatConsole or
// FormatJSON. Terminal files are wrapped for ANSI colors on Windows; a nil w
// means stderr.
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	switch f := w.(type) {
	case nil:
		w = colorable.NewColorableStderr()
	case *os.File:
		w = colorable.NewColorable(f)
	}

	switch format {
	case FormatConsole, "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (want %s or %s)", format, FormatConsole, FormatJSON)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// WithRun tags every entry of logger with a fresh run id.
func WithRun(logger zerolog.Logger) zerolog.Logger {
	return logger.With().Str("run", uuid.NewString()).Logger()
}
