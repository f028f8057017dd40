package api_gateway

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/river-banking-ledger/internal/api_gateway/handler"
	"github.com/river-banking-ledger/internal/api_gateway/middleware"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

const healthCheckTimeout = 2 * time.Second

// setupRouter configures API routes and middleware for the application.
// CorrelationID runs first so that recovery and request logs carry the ID.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	transactionHandler *handler.TransactionHandler,
	commandHandler *handler.CommandHandler,
	health HealthChecker,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
		}

		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.GetHistory)
			transactions.POST("/deposit", transactionHandler.Deposit)
			transactions.POST("/withdraw", transactionHandler.Withdraw)
			transactions.POST("/transfer", transactionHandler.Transfer)
		}

		v1.POST("/commands", commandHandler.Submit)
	}

	r.GET("/health", healthHandler(logger, health))
}

func healthHandler(logger *slog.Logger, health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now().UTC()
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()
			if err := health.Ping(ctx); err != nil {
				logger.WarnContext(ctx, "Health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "timestamp": now})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": now})
	}
}
