package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/janhq/calorie-api/internal/config"
	"github.com/janhq/calorie-api/internal/domain/analysis"
	"github.com/janhq/calorie-api/internal/domain/prompt"
	"github.com/janhq/calorie-api/internal/infrastructure/gemini"
	"github.com/janhq/calorie-api/internal/infrastructure/logger"
	"github.com/janhq/calorie-api/internal/infrastructure/observability"
	"github.com/janhq/calorie-api/internal/interfaces/httpserver"
)

// @title Calorie API
// @version 1.0
// @description Food image calorie estimation through a multimodal model
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	catalog, err := newPromptCatalog(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load prompt catalog")
	}
	log.Info().Str("source", promptSource(cfg)).Strs("prompts", catalog.Names()).Msg("prompt catalog loaded")

	if !cfg.HasDefaultCredential() {
		log.Warn().Msg("GEMINI_API_KEY is not set; requests must supply api_key")
	}

	provider := gemini.NewProvider(cfg, log)
	analysisService := analysis.NewService(cfg, provider, catalog, log)

	httpServer := httpserver.New(cfg, log, analysisService)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// newPromptCatalog loads PROMPT_FILE when set, otherwise the embedded catalog.
func newPromptCatalog(cfg *config.Config) (*prompt.Catalog, error) {
	return prompt.Load(cfg.PromptFile)
}

func promptSource(cfg *config.Config) string {
	if cfg.PromptFile != "" {
		return cfg.PromptFile
	}
	return "embedded"
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
