package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/transaction_processor/service"
)

// IdempotencyKeyPrefix namespaces claimed request IDs in Redis.
const IdempotencyKeyPrefix = "ledger:command:"

type TransactionValidatorImpl struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewTransactionValidator remembers claimed request IDs in Redis for ttl.
func NewTransactionValidator(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) service.TransactionValidator {
	return &TransactionValidatorImpl{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Validate checks that the command carries what its type requires.
func (v *TransactionValidatorImpl) Validate(ctx context.Context, cmd *shared.TransactionCommand) error {
	if err := cmd.Validate(); err != nil {
		v.logger.InfoContext(ctx, "Invalid command", "request_id", cmd.RequestID.String(), "reason", err.Error())
		return err
	}
	return nil
}

// CheckIdempotency claims the request ID with SET NX. A key that already
// exists means another delivery of the command has been or is being handled.
func (v *TransactionValidatorImpl) CheckIdempotency(ctx context.Context, cmd *shared.TransactionCommand) (bool, error) {
	claimed, err := v.client.SetNX(ctx, idempotencyKey(cmd), cmd.Timestamp.UTC().Format(time.RFC3339Nano), v.ttl).Result()
	if err != nil {
		v.logger.ErrorContext(ctx, "Failed to check idempotency", "request_id", cmd.RequestID.String(), "error", err)
		return false, fmt.Errorf("idempotency check failed for command %s: %w", cmd.RequestID, err)
	}

	if !claimed {
		v.logger.InfoContext(ctx, "Command already processed (idempotency)", "request_id", cmd.RequestID.String())
		return true, nil
	}
	return false, nil
}

func (v *TransactionValidatorImpl) ReleaseIdempotency(ctx context.Context, cmd *shared.TransactionCommand) error {
	if err := v.client.Del(ctx, idempotencyKey(cmd)).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key for command %s: %w", cmd.RequestID, err)
	}
	return nil
}

func idempotencyKey(cmd *shared.TransactionCommand) string {
	return IdempotencyKeyPrefix + cmd.RequestID.String()
}
