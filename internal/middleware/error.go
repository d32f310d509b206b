package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/model"
)

// ErrInternal is the message returned when a handler panics
const ErrInternal = "Internal server error"

// Recovery turns a panic into a 500 envelope and logs it
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic recovered",
			"component", "middleware",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.Failure(ErrInternal))
	})
}

// NotFound answers unknown routes with an error envelope
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.Failure("Route not found"))
	}
}
