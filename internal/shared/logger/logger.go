package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Logger is an alias used by services for dependency injection.
type Logger = log.Logger

// New returns a structured logger with a consistent service prefix.
func New(service string) *Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          service,
		ReportTimestamp: true,
	})
}
