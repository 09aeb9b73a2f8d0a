package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/calorie-api/internal/config"
	"github.com/janhq/calorie-api/internal/interfaces/httpserver/responses"
)

const rootMessage = "Calories Advisor API"

// StatusHandler serves the root and health endpoints. Neither touches the provider.
type StatusHandler struct {
	serviceName string
}

func NewStatusHandler(cfg *config.Config) *StatusHandler {
	return &StatusHandler{serviceName: cfg.ServiceName}
}

// Root godoc
// @Summary  Service status
// @Tags     status
// @Produce  json
// @Success  200  {object}  responses.StatusResponse
// @Router   / [get]
func (h *StatusHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, responses.StatusResponse{Message: rootMessage, Status: "running"})
}

// Health godoc
// @Summary  Health check
// @Tags     status
// @Produce  json
// @Success  200  {object}  responses.HealthResponse
// @Router   /health [get]
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{Status: "healthy"})
}
