package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/engine"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type dollarFormatter struct{}

func (dollarFormatter) Format(amount decimal.Decimal) string {
	return "$ " + amount.String()
}

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) CreateAccount(ctx context.Context, holder, pin string) (*account.Account, error) {
	args := m.Called(ctx, holder, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockLedger) GetAllAccounts(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockLedger) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*engine.TransactionView, error) {
	args := m.Called(ctx, accountID, amount)
	return viewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLedger) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error) {
	args := m.Called(ctx, accountID, amount, pin)
	return viewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLedger) Transfer(ctx context.Context, payerID, payeeID int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error) {
	args := m.Called(ctx, payerID, payeeID, amount, pin)
	return viewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockLedger) GetHistory(ctx context.Context, accountID int64) (*engine.History, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.History), args.Error(1)
}

func (m *MockLedger) Projector() *engine.Projector {
	return engine.NewProjector(dollarFormatter{})
}

func viewOrNil(v any) *engine.TransactionView {
	if v == nil {
		return nil
	}
	return v.(*engine.TransactionView)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}
