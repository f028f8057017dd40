package service

import (
	"context"
	"log/slog"

	"github.com/river-banking-ledger/internal/engine"
	"github.com/shopspring/decimal"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	ledger Ledger
	logger *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(logger *slog.Logger, ledger Ledger) TransactionService {
	return &TransactionServiceImpl{
		ledger: ledger,
		logger: logger,
	}
}

func (s *TransactionServiceImpl) Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*engine.TransactionView, error) {
	return s.ledger.Deposit(ctx, accountNumber, amount)
}

func (s *TransactionServiceImpl) Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error) {
	return s.ledger.Withdraw(ctx, accountNumber, amount, pin)
}

func (s *TransactionServiceImpl) Transfer(ctx context.Context, payerNumber, payeeNumber int64, amount decimal.Decimal, pin string) (*engine.TransactionView, error) {
	return s.ledger.Transfer(ctx, payerNumber, payeeNumber, amount, pin)
}

func (s *TransactionServiceImpl) GetHistory(ctx context.Context, accountNumber int64) (*engine.History, error) {
	history, err := s.ledger.GetHistory(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "Loaded transaction history",
		"account_number", accountNumber,
		"transactions", len(history.History),
	)
	return history, nil
}
