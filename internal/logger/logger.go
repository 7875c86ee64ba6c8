// Package logger builds the zerolog logger shared by gitci commands.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a logger writing to w (stderr when nil). Unknown levels fall
// back to warn. The text format uses zerolog's console writer without
// colors when w is not stderr.
func New(level, format string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.WarnLevel
	}

	output := w
	if format != FormatJSON {
		output = zerolog.ConsoleWriter{Out: w, NoColor: w != os.Stderr}
	}

	return zerolog.New(output).Level(logLevel).With().Timestamp().Logger()
}

// LevelFor maps the --debug and --verbose flags to a level name.
func LevelFor(debug, verbose bool) string {
	switch {
	case debug:
		return zerolog.DebugLevel.String()
	case verbose:
		return zerolog.InfoLevel.String()
	default:
		return zerolog.WarnLevel.String()
	}
}
