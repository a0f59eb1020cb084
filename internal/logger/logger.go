// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger instance writing to stdout.
// The formatter is JSON when ENVIRONMENT=production.
func NewLogger(logLevel string) *logrus.Logger {
	format := "text"
	if os.Getenv("ENVIRONMENT") == "production" {
		format = "json"
	}
	return NewLoggerWithFormat(logLevel, format, os.Stdout)
}

// NewLoggerWithFormat creates a logger with an explicit format ("json" or "text") and output
func NewLoggerWithFormat(logLevel, format string, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return logger
}
