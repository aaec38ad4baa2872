package proxylog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var Zero = NewZeroLogger("", "info", false)

// NewZeroLogger creates a logger writing to filepath (stdout when empty).
// JSON lines are produced unless prettyLogging is set.
func NewZeroLogger(filepath string, logLevel string, prettyLogging bool) *zerolog.Logger {
	_, writer, err := newWriter(filepath)
	if err != nil {
		writer = os.Stdout
	}

	var logger zerolog.Logger
	if prettyLogging {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(writer)
	}
	logger = logger.With().Timestamp().Logger().Level(parseLevel(logLevel))

	return &logger
}

func UpdateZeroLogLevel(logLevel string) error {
	level := parseLevel(logLevel)
	zeroLogger := Zero.With().Logger().Level(level)
	Zero = &zeroLogger
	return nil
}

// ReloadLogger replaces Zero with a logger configured from the given settings.
func ReloadLogger(filepath string, logLevel string, prettyLogging bool) {
	Zero = NewZeroLogger(filepath, logLevel, prettyLogging)
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
