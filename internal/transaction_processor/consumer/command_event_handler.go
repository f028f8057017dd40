package consumer

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

// CommandEventHandler decodes ledger commands read from Kafka and hands them
// to the processing service.
type CommandEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

func NewCommandEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *CommandEventHandler {
	return &CommandEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage is a consumers.MessageHandler. Undecodable payloads are
// parked on the DLQ and acknowledged.
func (h *CommandEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var cmd shared.TransactionCommand
	if err := json.Unmarshal(value, &cmd); err != nil {
		return h.parkUndecodable(ctx, key, value, err)
	}

	logger := h.logger
	if cmd.CorrelationID != "" {
		logger = h.logger.With("correlation_id", cmd.CorrelationID)
	}

	logger.InfoContext(ctx, "Received ledger command",
		"request_id", cmd.RequestID.String(),
		"type", cmd.Type,
		"amount", cmd.Amount.String(),
	)

	if err := h.processingService.ProcessCommand(ctx, &cmd); err != nil {
		logger.ErrorContext(ctx, "Failed to process command", "request_id", cmd.RequestID.String(), "error", err)
		return fmt.Errorf("processing command %s failed: %w", cmd.RequestID, err)
	}
	return nil
}

func (h *CommandEventHandler) parkUndecodable(ctx context.Context, key, value []byte, cause error) error {
	const msg = "Failed to unmarshal ledger command from Kafka message"
	h.logger.ErrorContext(ctx, msg, "error", cause, "message_key", string(key))

	reason := fmt.Sprintf("%s: %s", msg, cause.Error())
	err := h.producer.PublishToDLQ(ctx, string(key), value, reason)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, producers.ErrDLQDisabled):
		h.logger.WarnContext(ctx, "Dropping undecodable message, DLQ is disabled", "message_key", string(key))
		return nil
	default:
		h.logger.ErrorContext(ctx, "Failed to publish message to DLQ after unmarshal error",
			"dlq_error", err,
			"original_error", cause,
			"message_key", string(key),
		)
		return fmt.Errorf("failed to unmarshal message value: %w", cause)
	}
}
