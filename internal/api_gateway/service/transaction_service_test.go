package service

import (
	"context"
	"testing"
	"time"

	"github.com/river-banking-ledger/internal/domain/shared"
	"github.com/river-banking-ledger/internal/engine"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTransactionService_Delegates(t *testing.T) {
	ctx := context.Background()
	amount := decimal.RequireFromString("2.5")
	view := &engine.TransactionView{TransactionID: 9, Type: shared.TransactionTypeWithdrawal, Amount: "$ 2.5", Balance: "$ 7.5"}

	t.Run("Deposit", func(t *testing.T) {
		ledger := new(MockLedger)
		ledger.On("Deposit", mock.Anything, int64(1001), amount).Return(view, nil).Once()

		got, err := NewTransactionService(newTestLogger(), ledger).Deposit(ctx, 1001, amount)
		require.NoError(t, err)
		assert.Same(t, view, got)
	})

	t.Run("Withdraw", func(t *testing.T) {
		ledger := new(MockLedger)
		ledger.On("Withdraw", mock.Anything, int64(1001), amount, "0000").Return(nil, shared.NewWrongPin(1001, "0000")).Once()

		got, err := NewTransactionService(newTestLogger(), ledger).Withdraw(ctx, 1001, amount, "0000")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, shared.ErrWrongPin)
	})

	t.Run("Transfer", func(t *testing.T) {
		ledger := new(MockLedger)
		ledger.On("Transfer", mock.Anything, int64(1001), int64(1002), amount, "1234").Return(view, nil).Once()

		got, err := NewTransactionService(newTestLogger(), ledger).Transfer(ctx, 1001, 1002, amount, "1234")
		require.NoError(t, err)
		assert.Same(t, view, got)
		ledger.AssertExpectations(t)
	})
}

func TestTransactionService_GetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ledger := new(MockLedger)
		history := &engine.History{
			Account: engine.AccountDetail{Number: 1001, Holder: "Wolf", Balance: "$ 10.25"},
			History: []engine.TransactionView{{TransactionID: 1, Type: shared.TransactionTypeDeposit, Timestamp: time.Now()}},
		}
		ledger.On("GetHistory", mock.Anything, int64(1001)).Return(history, nil).Once()

		got, err := NewTransactionService(newTestLogger(), ledger).GetHistory(ctx, 1001)
		require.NoError(t, err)
		assert.Same(t, history, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		ledger := new(MockLedger)
		ledger.On("GetHistory", mock.Anything, int64(5)).Return(nil, shared.NewAccountNotFound(5)).Once()

		_, err := NewTransactionService(newTestLogger(), ledger).GetHistory(ctx, 5)
		assert.ErrorIs(t, err, shared.ErrAccountNotFound)
	})
}
