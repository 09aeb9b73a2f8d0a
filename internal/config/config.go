package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// DefaultModel is the provider model used when neither the caller nor the environment picks one.
const DefaultModel = "models/gemma-3-27b-it"

// Config holds the environment driven configuration for the calorie service.
// It is loaded once at startup and never mutated afterwards.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"calorie-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8000"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"` // json or console
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Observability
	EnableTracing bool   `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTLPHeaders   string `env:"OTEL_EXPORTER_OTLP_HEADERS" envDefault:""`

	// Provider
	GeminiAPIKey  string `env:"GEMINI_API_KEY"` // default credential, callers may override per request
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"models/gemma-3-27b-it"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`

	// Uploads
	MaxImageBytes int64 `env:"MAX_IMAGE_BYTES" envDefault:"10485760"`

	// Prompts
	PromptFile string `env:"PROMPT_FILE"` // optional override of the embedded catalog
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	cfg.GeminiModel = strings.TrimSpace(cfg.GeminiModel)
	cfg.GeminiBaseURL = strings.TrimSpace(cfg.GeminiBaseURL)
	cfg.PromptFile = strings.TrimSpace(cfg.PromptFile)
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = DefaultModel
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 10 * 1024 * 1024
	}
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", cfg.HTTPPort)
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// HasDefaultCredential reports whether a process-wide provider key was configured.
func (c *Config) HasDefaultCredential() bool {
	return c.GeminiAPIKey != ""
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}
