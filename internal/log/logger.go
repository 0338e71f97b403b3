package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the portal logger. Production writes JSON lines; every other
// environment gets the human-readable console writer at debug level.
func New(environment string) zerolog.Logger {
	return newWithWriter(environment, os.Stdout)
}

func newWithWriter(environment string, out io.Writer) zerolog.Logger {
	var output io.Writer = out
	if environment != "production" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	level := zerolog.DebugLevel
	if environment == "production" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "lgu-portal").
		Str("env", environment).
		Logger()
}
