package logs

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/pagecast/pagecast/pkg/config"
)

// NewLogger creates a zerolog logger from the logging configuration.
// Console output is pretty-printed; a file sink is appended when enabled.
func NewLogger(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, err
	}

	var out io.Writer = os.Stderr
	if cfg.File.Enabled && cfg.File.Path != "" {
		logFile, err := os.OpenFile(cfg.File.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Logger{}, err
		}
		out = io.MultiWriter(os.Stderr, logFile)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: cfg.TimestampFormat,
		NoColor:    !cfg.Color,
	}

	logger := zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, nil
}
