package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/river-banking-ledger/internal/domain/shared"
)

// UnknownErrorMessage is shown to clients in place of internal failure details.
const UnknownErrorMessage = "An unexpected error occurred."

// Recovery middleware catches panics, logs them with stack traces, and renders
// the Unknown ledger error with the correlation ID (if available)
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					"error", r,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				response := gin.H{
					"error":   shared.KindUnknown.Code(),
					"message": UnknownErrorMessage,
				}
				if correlationID := GetCorrelationID(c); correlationID != "" {
					response["correlation_id"] = correlationID
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, response)
			}
		}()

		c.Next()
	}
}
