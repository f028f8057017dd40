package service

import (
	"context"

	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/engine"
	"github.com/shopspring/decimal"
)

// AccountService defines the interface for account operations
type AccountService interface {
	// CreateAccount opens an account with a zero balance and returns its
	// public detail view.
	CreateAccount(ctx context.Context, holder, pin string) (*engine.AccountDetail, error)

	// GetAllAccounts lists every account in number order.
	GetAllAccounts(ctx context.Context) ([]engine.AccountDetail, error)
}

// TransactionService defines the interface for synchronous ledger operations.
// Failures are *shared.Error values.
type TransactionService interface {
	Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*engine.TransactionView, error)
	Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error)
	Transfer(ctx context.Context, payerNumber, payeeNumber int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error)

	// GetHistory returns the account detail and its transactions, most recent first.
	GetHistory(ctx context.Context, accountNumber int64) (*engine.History, error)
}

// CommandService queues ledger commands for the transaction processor.
type CommandService interface {
	// SubmitCommand validates cmd, stamps it and publishes it. The returned
	// command carries the request ID under which the result will be reported.
	SubmitCommand(ctx context.Context, cmd shared.TransactionCommand) (*shared.TransactionCommand, error)
}

// Ledger is the part of the engine the services call.
type Ledger interface {
	CreateAccount(ctx context.Context, holder, pin string) (*account.Account, error)
	GetAllAccounts(ctx context.Context) ([]*account.Account, error)
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*engine.TransactionView, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error)
	Transfer(ctx context.Context, payerID, payeeID int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error)
	GetHistory(ctx context.Context, accountID int64) (*engine.History, error)
	Projector() *engine.Projector
}

var _ Ledger = (*engine.Engine)(nil)
