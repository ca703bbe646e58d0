package log

import (
	"fmt"
	"os"

	"github.com/hadi77ir/go-logging"
)

var defaultLogger logging.Logger

func SetDefaultLogger(logger logging.Logger) {
	defaultLogger = logger
}
func DefaultLogger() logging.Logger {
	return defaultLogger
}

// Log writes to the default logger, if any.
func Log(level logging.Level, args ...interface{}) {
	LogTo(defaultLogger, level, args...)
}

// LogTo writes to logger, falling back to dropping the message when logger is nil.
// PanicLevel exits the process.
func LogTo(logger logging.Logger, level logging.Level, args ...interface{}) {
	if logger != nil {
		logger.Log(level, args...)
	}
	if level == logging.PanicLevel {
		if logger == nil {
			fmt.Println(args...)
		}
		os.Exit(1)
	}
}
