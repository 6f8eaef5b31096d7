// Package logging builds the console logger.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vmalla30210/CollaborativeTodoList/internal/config"
)

// Options holds configuration for console logging.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns default options for console logging.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		Prefix:          "todoapp",
	}
}

// New creates a logger writing to w with the given options.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// FromConfig builds a stderr logger from the config's logging settings.
// Unknown values fall back to the defaults; config.Load rejects them
// earlier, so this only matters for hand-built configs.
func FromConfig(cfg *config.Config) *log.Logger {
	opts := DefaultOptions()
	opts.Level = ParseLevel(cfg.LogLevel)
	opts.Formatter = ParseFormat(cfg.LogFormat)
	opts.ReportTimestamp = cfg.LogTimestamps
	return New(os.Stderr, opts)
}

// ParseLevel maps a config level string to a log level.
func ParseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormat maps a config format string to a formatter.
func ParseFormat(s string) log.Formatter {
	switch s {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
