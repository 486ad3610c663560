package config

import (
	"io"

	"github.com/charmbracelet/log"
)

// ParseLogLevel parses a level name, defaulting to info.
func ParseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseLogFormatter parses a formatter name, defaulting to text.
func ParseLogFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// NewLogger builds the console logger described by c.
func (c LogConfig) NewLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLogLevel(c.Level),
		Formatter:       ParseLogFormatter(c.Format),
		ReportTimestamp: c.Timestamps,
		Prefix:          "jxmigrate",
	})
}
