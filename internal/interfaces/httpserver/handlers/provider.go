package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/calorie-api/internal/config"
	"github.com/janhq/calorie-api/internal/domain/analysis"
)

// Provider wires HTTP handlers.
type Provider struct {
	Analysis *AnalysisHandler
	Status   *StatusHandler
}

func NewProvider(cfg *config.Config, service *analysis.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Analysis: NewAnalysisHandler(cfg, service, log),
		Status:   NewStatusHandler(cfg),
	}
}
