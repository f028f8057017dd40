package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/platform/messaging/producers"
)

// CommandServiceImpl implements the CommandService interface
type CommandServiceImpl struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
	newID    func() uuid.UUID
	now      func() time.Time
}

// NewCommandService creates a new command service
func NewCommandService(logger *slog.Logger, producer producers.MessagePublisher) CommandService {
	return &CommandServiceImpl{
		producer: producer,
		logger:   logger,
		newID:    uuid.New,
		now:      time.Now,
	}
}

// SubmitCommand keeps a client supplied request ID so that retries of the
// same submission are de-duplicated by the processor.
func (s *CommandServiceImpl) SubmitCommand(ctx context.Context, cmd shared.TransactionCommand) (*shared.TransactionCommand, error) {
	if cmd.RequestID == uuid.Nil {
		cmd.RequestID = s.newID()
	}
	cmd.Timestamp = s.now().UTC()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := s.producer.Publish(ctx, commandKey(&cmd), &cmd); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish ledger command",
			"request_id", cmd.RequestID.String(),
			"type", string(cmd.Type),
			"error", err,
		)
		return nil, shared.NewUnknown(err)
	}

	s.logger.InfoContext(ctx, "Ledger command published",
		"request_id", cmd.RequestID.String(),
		"type", string(cmd.Type),
	)
	return &cmd, nil
}

// commandKey partitions by the debited or credited account, so commands
// touching the same author are consumed in submission order.
func commandKey(cmd *shared.TransactionCommand) string {
	if cmd.Type == shared.CommandTypeTransfer {
		return strconv.FormatInt(cmd.PayerNumber, 10)
	}
	return strconv.FormatInt(cmd.AccountNumber, 10)
}
