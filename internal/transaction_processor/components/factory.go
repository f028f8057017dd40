package components

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/river-banking-ledger/internal/config"
	"github.com/river-banking-ledger/internal/platform/messaging/producers"
	"github.com/river-banking-ledger/internal/transaction_processor/service"
)

// CreateProcessingService creates a new ProcessingService with all its dependencies.
func CreateProcessingService(
	ledger service.LedgerExecutor,
	redisClient redis.Cmdable,
	results service.ResultPublisher,
	dlq producers.DeadLetterPublisher,
	logger *slog.Logger,
	cfg *config.Config,
) service.ProcessingService {
	validator := NewTransactionValidator(redisClient, cfg.Redis.DedupTTL, logger)
	failureRecorder := NewFailureRecorder(dlq, logger)

	baseService := service.NewProcessingService(
		ledger,
		validator,
		results,
		failureRecorder,
		logger,
	)

	workerPoolService, err := service.NewWorkerPoolProcessingService(
		baseService,
		service.WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool processing service", "pool_size", workerPoolService.Capacity())
	return workerPoolService
}
