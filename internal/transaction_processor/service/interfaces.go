package service

import (
	"context"

	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/engine"
	"github.com/shopspring/decimal"
)

// ProcessingService defines the interface for processing ledger commands.
type ProcessingService interface {
	ProcessCommand(ctx context.Context, cmd *shared.TransactionCommand) error
}

// TransactionValidator validates commands and guards against processing the
// same request twice.
type TransactionValidator interface {
	Validate(ctx context.Context, cmd *shared.TransactionCommand) error
	// CheckIdempotency claims the request ID. It reports true when the
	// command was already claimed and must be skipped.
	CheckIdempotency(ctx context.Context, cmd *shared.TransactionCommand) (bool, error)
	ReleaseIdempotency(ctx context.Context, cmd *shared.TransactionCommand) error
}

// LedgerExecutor applies validated commands. *engine.Engine implements it.
type LedgerExecutor interface {
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*engine.TransactionView, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error)
	Transfer(ctx context.Context, payerID, payeeID int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error)
}

var _ LedgerExecutor = (*engine.Engine)(nil)

// ResultPublisher announces command outcomes.
type ResultPublisher interface {
	Publish(ctx context.Context, key string, value any) error
}

// FailureRecorder keeps commands that failed for reasons outside the ledger
// taxonomy so they can be inspected.
type FailureRecorder interface {
	RecordFailure(ctx context.Context, cmd *shared.TransactionCommand, failureReason string) error
}
