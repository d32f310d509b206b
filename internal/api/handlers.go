package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/service"
)

// healthTimeout bounds the store ping of the health check
const healthTimeout = 2 * time.Second

// HealthCheck reports whether the recipe store is reachable
func HealthCheck(recipeService service.IRecipeService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := recipeService.Ping(ctx); err != nil {
			logger.Error("health check failed", "component", "api", "error", err)
			c.JSON(http.StatusServiceUnavailable, model.Failure("store unavailable"))
			return
		}
		c.JSON(http.StatusOK, model.Success("ok", nil))
	}
}

// RegisterRoutes registers all API routes. metrics may be nil.
func RegisterRoutes(router *gin.Engine, recipeService service.IRecipeService, metrics *middleware.Metrics, logger *slog.Logger) {
	router.GET("/health", HealthCheck(recipeService, logger))
	if metrics != nil {
		router.GET("/metrics", metrics.Handler())
	}

	NewRecipeHandler(recipeService, logger).RegisterRoutes(router)
	router.NoRoute(middleware.NotFound())
}
