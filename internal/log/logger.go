// Package log builds the process-wide console logger.
package log

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a console logger at the given level. Unknown or empty
// level strings fall back to info.
func New(level string) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(output).Level(lvl).With().Timestamp().Logger()
	return &logger
}
