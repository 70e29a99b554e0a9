// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup sends logs to stderr in console format with caller info and sets the
// global level. Unknown levels fall back to info.
func Setup(level string) zerolog.Logger {
	return SetupWriter(os.Stderr, level)
}

func SetupWriter(w io.Writer, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w}).With().Caller().Logger()

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return log.Logger
}
