package reactor

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the zerolog.Logger used throughout this package.
// levelName is one of zerolog's level strings ("trace".."panic"); an
// unrecognized name falls back to "info".
func NewLogger(levelName string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
