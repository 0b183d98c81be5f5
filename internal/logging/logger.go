// Package logging wraps charmbracelet/log for the command-line surface,
// kept distinct from the core package's slog-based diagnostic logging.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// FieldError is the structured-logging key used for wrapped errors.
const FieldError = "err"

var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
)

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = New("info")
	})
	return defaultLogger
}

// New builds a logger at the given level. Valid levels are "debug",
// "info", "warn", and "error"; anything else is treated as "info".
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	setLoggerLevel(logger, level)
	return logger
}

func setLoggerLevel(logger *log.Logger, level string) {
	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// Default returns the package-level logger used by commands that were not
// handed one explicitly.
func Default() *log.Logger { return getDefaultLogger() }

// SetLevel updates the level of the default logger.
func SetLevel(level string) { setLoggerLevel(getDefaultLogger(), level) }
