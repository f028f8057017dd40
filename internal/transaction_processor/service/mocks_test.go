package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/engine"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessCommand(ctx context.Context, cmd *shared.TransactionCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type MockTransactionValidator struct {
	mock.Mock
}

func (m *MockTransactionValidator) Validate(ctx context.Context, cmd *shared.TransactionCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func (m *MockTransactionValidator) CheckIdempotency(ctx context.Context, cmd *shared.TransactionCommand) (bool, error) {
	args := m.Called(ctx, cmd)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionValidator) ReleaseIdempotency(ctx context.Context, cmd *shared.TransactionCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

// MockLedgerExecutor records amounts as strings so expectations do not
// depend on decimal internals.
type MockLedgerExecutor struct {
	mock.Mock
}

func (m *MockLedgerExecutor) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*engine.TransactionView, error) {
	args := m.Called(ctx, accountID, amount.String())
	return viewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLedgerExecutor) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error) {
	args := m.Called(ctx, accountID, amount.String(), pin)
	return viewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLedgerExecutor) Transfer(ctx context.Context, payerID, payeeID int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error) {
	args := m.Called(ctx, payerID, payeeID, amount.String(), pin)
	return viewOrNil(args.Get(0)), args.Error(1)
}

func viewOrNil(v any) *engine.TransactionView {
	if v == nil {
		return nil
	}
	return v.(*engine.TransactionView)
}

type MockResultPublisher struct {
	mock.Mock
}

func (m *MockResultPublisher) Publish(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type MockFailureRecorder struct {
	mock.Mock
}

func (m *MockFailureRecorder) RecordFailure(ctx context.Context, cmd *shared.TransactionCommand, failureReason string) error {
	args := m.Called(ctx, cmd, failureReason)
	return args.Error(0)
}
