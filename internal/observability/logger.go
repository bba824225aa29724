// Package observability provides the shared zerolog setup for the tool.
package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string // trace, debug, info, warn, error
	Format string // json or console
	Output io.Writer
}

// New creates a logger with the given configuration. Output defaults to
// stderr so stdout stays reserved for the extracted number.
func New(cfg LogConfig) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	var zl zerolog.Logger
	if cfg.Format == "json" {
		zl = zerolog.New(output)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		})
	}

	return zl.Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

// Default returns a console logger at warn level, the CLI's quiet baseline.
func Default() zerolog.Logger {
	return New(LogConfig{Level: "warn", Format: "console"})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
