package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transactionRowColumns = []string{
	"id", "created_at", "amount",
	"author_id", "author_holder", "author_balance",
	"target_id", "target_holder", "target_balance",
}

func TestTransactionRepository_Save(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}
	createdAt := time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC)

	t.Run("Deposit", func(t *testing.T) {
		wolf := &account.Account{ID: 1001, Holder: "Wolf", Balance: decimal.RequireFromString("10.00")}
		tx := ledger.NewDeposit(wolf, decimal.RequireFromString("10"))

		mock.ExpectQuery(regexp.QuoteMeta(insertTransactionQuery)).
			WithArgs("10", int64(1001), "10.00", nil, nil).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), createdAt))

		saved, err := repo.Save(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), saved.ID)
		assert.Equal(t, createdAt, saved.Timestamp)
		assert.Equal(t, ledger.KindDeposit, saved.Kind())
		assert.Zero(t, tx.ID, "the input record must not be mutated")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Transfer", func(t *testing.T) {
		wolf := &account.Account{ID: 1001, Holder: "Wolf", Balance: decimal.RequireFromString("7.5")}
		fox := &account.Account{ID: 1002, Holder: "Fox", Balance: decimal.RequireFromString("2.5")}
		tx := ledger.NewTransfer(wolf, fox, decimal.RequireFromString("2.5"))

		mock.ExpectQuery(regexp.QuoteMeta(insertTransactionQuery)).
			WithArgs("-2.5", int64(1001), "7.5", int64(1002), "2.5").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(2), createdAt))

		saved, err := repo.Save(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), saved.ID)
		assert.Equal(t, ledger.KindTransfer, saved.Kind())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StampsAtInsertTime", func(t *testing.T) {
		wolf := &account.Account{ID: 1001, Holder: "Wolf", Balance: decimal.RequireFromString("4")}
		tx := ledger.NewWithdrawal(wolf, decimal.RequireFromString("1"))

		mock.ExpectQuery(`INSERT INTO transactions \(created_at, amount, .*\)\s+VALUES \(clock_timestamp\(\), \$1::numeric`).
			WithArgs("-1", int64(1001), "4", nil, nil).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), createdAt))

		saved, err := repo.Save(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, createdAt, saved.Timestamp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectsInvalidShape", func(t *testing.T) {
		tx := &ledger.Transaction{Author: &account.Account{ID: 1001}, Amount: decimal.Zero}

		saved, err := repo.Save(ctx, tx)
		assert.Nil(t, saved)
		assert.ErrorIs(t, err, ledger.ErrInvalidTransaction)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertFailure", func(t *testing.T) {
		expectedErr := errors.New("foreign key violation")
		wolf := &account.Account{ID: 1001, Balance: decimal.RequireFromString("5")}
		tx := ledger.NewWithdrawal(wolf, decimal.RequireFromString("5"))

		mock.ExpectQuery(regexp.QuoteMeta(insertTransactionQuery)).
			WithArgs("-5", int64(1001), "5", nil, nil).
			WillReturnError(expectedErr)

		saved, err := repo.Save(ctx, tx)
		assert.Nil(t, saved)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to insert transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_FindAllByAccount(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}
	t1 := time.Date(2024, 3, 1, 12, 0, 1, 0, time.UTC)
	t2 := t1.Add(time.Second)

	t.Run("Success", func(t *testing.T) {
		rows := pgxmock.NewRows(transactionRowColumns).
			AddRow(int64(2), t2, "-2.5", int64(1001), "Wolf", "7.5", int64(1002), "Fox", "2.5").
			AddRow(int64(1), t1, "10", int64(1001), "Wolf", "10.00", int64(0), "", "")
		mock.ExpectQuery(regexp.QuoteMeta(selectTransactionsByAccountQuery)).
			WithArgs(int64(1001)).
			WillReturnRows(rows)

		txs, err := repo.FindAllByAccount(ctx, 1001)
		require.NoError(t, err)
		require.Len(t, txs, 2)

		transfer := txs[0]
		assert.Equal(t, ledger.KindTransfer, transfer.Kind())
		assert.Equal(t, "Fox", transfer.Target.Holder)
		assert.Equal(t, "2.5", transfer.TargetBalance.String())
		assert.Equal(t, t2, transfer.Timestamp)

		deposit := txs[1]
		assert.Equal(t, ledger.KindDeposit, deposit.Kind())
		assert.Nil(t, deposit.Target)
		assert.Nil(t, deposit.TargetBalance)
		assert.Equal(t, int32(-2), deposit.AuthorBalance.Exponent())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NoHistory", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(selectTransactionsByAccountQuery)).
			WithArgs(int64(1003)).
			WillReturnRows(pgxmock.NewRows(transactionRowColumns))

		txs, err := repo.FindAllByAccount(ctx, 1003)
		require.NoError(t, err)
		assert.NotNil(t, txs)
		assert.Empty(t, txs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CorruptAmount", func(t *testing.T) {
		rows := pgxmock.NewRows(transactionRowColumns).
			AddRow(int64(3), t1, "??", int64(1001), "Wolf", "1", int64(0), "", "")
		mock.ExpectQuery(regexp.QuoteMeta(selectTransactionsByAccountQuery)).
			WithArgs(int64(1001)).
			WillReturnRows(rows)

		txs, err := repo.FindAllByAccount(ctx, 1001)
		assert.Nil(t, txs)
		assert.ErrorContains(t, err, "failed to scan transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
