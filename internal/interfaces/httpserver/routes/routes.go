package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/calorie-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches the public routes.
func (r *Routes) Register(router gin.IRouter) {
	router.GET("/", r.handlers.Status.Root)
	router.GET("/health", r.handlers.Status.Health)
	router.POST("/analyze-calories", r.handlers.Analysis.AnalyzeCalories)
}
