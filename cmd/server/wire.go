//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/janhq/calorie-api/internal/config"
	"github.com/janhq/calorie-api/internal/domain/analysis"
	"github.com/janhq/calorie-api/internal/infrastructure/gemini"
	"github.com/janhq/calorie-api/internal/infrastructure/logger"
	"github.com/janhq/calorie-api/internal/interfaces/httpserver"
)

var analysisSet = wire.NewSet(
	newPromptCatalog,
	gemini.NewProvider,
	wire.Bind(new(analysis.Provider), new(*gemini.Provider)),
	analysis.NewService,
)

// BuildApplication assembles the calorie API with Wire.
func BuildApplication() (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		analysisSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}
