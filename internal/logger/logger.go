package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger creates a new zerolog logger with console output
func NewLogger() zerolog.Logger {
	return newConsoleLogger(os.Stderr)
}

// NewLoggerWithLevel creates a new logger with a level name such as "debug"
// or "warn". Unknown names fall back to info.
func NewLoggerWithLevel(level string) zerolog.Logger {
	return NewLogger().Level(ParseLevel(level))
}

// ParseLevel converts a level name to a zerolog level
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func newConsoleLogger(w io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(output).With().Timestamp().Logger()
}
