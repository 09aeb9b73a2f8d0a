package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/calorie-api/internal/config"
)

// New constructs the service logger from configuration.
func New(cfg *config.Config) (zerolog.Logger, error) {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit output, used by tests.
func NewWithWriter(cfg *config.Config, out io.Writer) (zerolog.Logger, error) {
	level := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
	}

	var base zerolog.Logger
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "", "json":
		base = zerolog.New(out)
	case "console":
		base = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	default:
		return zerolog.Logger{}, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}

	return base.Level(lvl).With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Logger(), nil
}
