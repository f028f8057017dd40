package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/engine"
)

// unknownFailureMessage replaces internal error details in published results.
const unknownFailureMessage = "An unexpected error occurred."

type ProcessingServiceImpl struct {
	ledger          LedgerExecutor
	validator       TransactionValidator
	results         ResultPublisher
	failureRecorder FailureRecorder
	logger          *slog.Logger
	now             func() time.Time
}

func NewProcessingService(
	ledger LedgerExecutor,
	validator TransactionValidator,
	results ResultPublisher,
	failureRecorder FailureRecorder,
	logger *slog.Logger,
) *ProcessingServiceImpl {
	return &ProcessingServiceImpl{
		ledger:          ledger,
		validator:       validator,
		results:         results,
		failureRecorder: failureRecorder,
		logger:          logger,
		now:             time.Now,
	}
}

// ProcessCommand validates, de-duplicates and executes one command, then
// publishes its outcome. Only a failure to consult the idempotency store is
// returned, which leaves the message uncommitted for a later redelivery.
//
// Once started, a command runs to the end even if ctx is canceled, so a
// claimed request ID is always either used, released or parked.
func (s *ProcessingServiceImpl) ProcessCommand(ctx context.Context, cmd *shared.TransactionCommand) error {
	ctx = detached(ctx)

	logger := s.logger.With("request_id", cmd.RequestID.String(), "type", cmd.Type)
	if cmd.CorrelationID != "" {
		logger = logger.With("correlation_id", cmd.CorrelationID)
	}

	logger.InfoContext(ctx, "Processing command")

	// 1. Validate the command
	if err := s.validator.Validate(ctx, cmd); err != nil {
		logger.WarnContext(ctx, "Command validation failed", "error", err)
		s.publish(ctx, logger, cmd, s.rejected(cmd, err))
		return nil
	}

	// 2. Check idempotency
	skip, err := s.validator.CheckIdempotency(ctx, cmd)
	if err != nil {
		return err
	}
	if skip {
		return nil
	}

	// 3. Execute against the ledger
	view, err := s.execute(ctx, cmd)
	if err != nil {
		if shared.KindOf(err) == shared.KindUnknown {
			s.handleUnknown(ctx, logger, cmd, err)
		}
		logger.InfoContext(ctx, "Command rejected", "kind", shared.KindOf(err).String())
		s.publish(ctx, logger, cmd, s.rejected(cmd, err))
		return nil
	}

	// 4. Announce the result
	s.publish(ctx, logger, cmd, shared.TransactionResult{
		RequestID:     cmd.RequestID,
		Status:        shared.CommandStatusCompleted,
		Transaction:   view,
		CorrelationID: cmd.CorrelationID,
		ProcessedAt:   s.now().UTC(),
	})
	logger.InfoContext(ctx, "Command completed", "transaction_id", view.TransactionID)
	return nil
}

func (s *ProcessingServiceImpl) execute(ctx context.Context, cmd *shared.TransactionCommand) (*engine.TransactionView, error) {
	switch cmd.Type {
	case shared.CommandTypeDeposit:
		return s.ledger.Deposit(ctx, cmd.AccountNumber, cmd.Amount)
	case shared.CommandTypeWithdraw:
		return s.ledger.Withdraw(ctx, cmd.AccountNumber, cmd.Amount, cmd.Pin)
	case shared.CommandTypeTransfer:
		return s.ledger.Transfer(ctx, cmd.PayerNumber, cmd.PayeeNumber, cmd.Amount, cmd.Pin)
	default:
		return nil, shared.NewInvalidField("type", string(cmd.Type))
	}
}

// handleUnknown frees the request ID so a resubmission is not skipped, and
// parks the command for inspection.
func (s *ProcessingServiceImpl) handleUnknown(ctx context.Context, logger *slog.Logger, cmd *shared.TransactionCommand, cause error) {
	logger.ErrorContext(ctx, "Command failed unexpectedly", "error", cause)

	if err := s.validator.ReleaseIdempotency(ctx, cmd); err != nil {
		logger.ErrorContext(ctx, "Failed to release idempotency key", "error", err)
	}
	if err := s.failureRecorder.RecordFailure(ctx, cmd, cause.Error()); err != nil {
		logger.ErrorContext(ctx, "Failed to record command failure", "error", err)
	}
}

func (s *ProcessingServiceImpl) rejected(cmd *shared.TransactionCommand, err error) shared.TransactionResult {
	e := shared.AsError(err)
	message := e.Error()
	if e.Kind == shared.KindUnknown {
		message = unknownFailureMessage
	}
	return shared.TransactionResult{
		RequestID:     cmd.RequestID,
		Status:        shared.CommandStatusRejected,
		Error:         &shared.CommandError{Code: e.Kind.Code(), Message: message},
		CorrelationID: cmd.CorrelationID,
		ProcessedAt:   s.now().UTC(),
	}
}

// publish failures are logged only. The ledger change is already committed,
// so failing the message would re-run a completed command.
func (s *ProcessingServiceImpl) publish(ctx context.Context, logger *slog.Logger, cmd *shared.TransactionCommand, result shared.TransactionResult) {
	if err := s.results.Publish(ctx, cmd.RequestID.String(), result); err != nil {
		logger.ErrorContext(ctx, "Failed to publish command result", "status", result.Status, "error", err)
	}
}

func detached(ctx context.Context) context.Context {
	if ctx.Done() == nil {
		return ctx
	}
	return context.WithoutCancel(ctx)
}
