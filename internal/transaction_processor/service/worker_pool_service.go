package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/river-banking-ledger/internal/domain/shared"
)

// WorkerPoolProcessingService runs commands of the wrapped service on a
// bounded ants pool. ProcessCommand blocks until its command has finished.
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ProcessCommand submits cmd to the pool and waits for its result. A panic in
// the wrapped service is turned into an error so the caller never blocks on a
// worker that died.
func (s *WorkerPoolProcessingService) ProcessCommand(ctx context.Context, cmd *shared.TransactionCommand) error {
	logger := s.logger
	if cmd.CorrelationID != "" {
		logger = s.logger.With("correlation_id", cmd.CorrelationID)
	}

	logger.DebugContext(ctx, "Submitting command to worker pool", "request_id", cmd.RequestID.String())

	resultChan := make(chan error, 1)
	cmdCopy := *cmd

	err := s.pool.Submit(func() {
		defer func() {
			if p := recover(); p != nil {
				logger.ErrorContext(ctx, "Recovered panic while processing command",
					"request_id", cmdCopy.RequestID.String(),
					"panic", p,
				)
				resultChan <- fmt.Errorf("panic while processing command %s: %v", cmdCopy.RequestID, p)
			}
		}()
		resultChan <- s.baseService.ProcessCommand(ctx, &cmdCopy)
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to submit command to worker pool",
			"request_id", cmd.RequestID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
