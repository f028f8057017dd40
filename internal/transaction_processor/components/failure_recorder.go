package components

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/platform/messaging/producers"
	"github.com/river-banking-ledger/internal/transaction_processor/service"
)

const redactedPin = "****"

type FailureRecorderImpl struct {
	dlq    producers.DeadLetterPublisher
	logger *slog.Logger
}

func NewFailureRecorder(dlq producers.DeadLetterPublisher, logger *slog.Logger) service.FailureRecorder {
	return &FailureRecorderImpl{
		dlq:    dlq,
		logger: logger,
	}
}

// RecordFailure parks the command on the dead letter topic, keyed by request
// ID. The PIN is masked in the parked copy.
func (r *FailureRecorderImpl) RecordFailure(ctx context.Context, cmd *shared.TransactionCommand, failureReason string) error {
	logger := r.logger
	if cmd.CorrelationID != "" {
		logger = r.logger.With("correlation_id", cmd.CorrelationID)
	}

	parked := *cmd
	if parked.Pin != "" {
		parked.Pin = redactedPin
	}
	value, err := json.Marshal(parked)
	if err != nil {
		return fmt.Errorf("failed to marshal failed command %s: %w", cmd.RequestID, err)
	}

	err = r.dlq.PublishToDLQ(ctx, cmd.RequestID.String(), value, failureReason)
	if errors.Is(err, producers.ErrDLQDisabled) {
		logger.WarnContext(ctx, "Dropping failed command, DLQ is disabled", "request_id", cmd.RequestID.String(), "reason", failureReason)
		return nil
	}
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Recorded failed command", "request_id", cmd.RequestID.String(), "reason", failureReason)
	return nil
}
