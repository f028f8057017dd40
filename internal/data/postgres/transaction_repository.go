package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/domain/ledger"
	"github.com/river-banking-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

const (
	// clock_timestamp is read while the account rows are locked, so records
	// of conflicting operations are stamped in commit order. now() would
	// return the transaction start instead.
	insertTransactionQuery = `
		INSERT INTO transactions (created_at, amount, author_id, author_balance, target_id, target_balance)
		VALUES (clock_timestamp(), $1::numeric, $2, $3::numeric, $4, $5::numeric)
		RETURNING id, created_at`

	// The target columns are coalesced so deposits and withdrawals scan
	// into plain values. No account has ID 0.
	selectTransactionsByAccountQuery = `
		SELECT t.id, t.created_at, t.amount::text,
		       a.id, a.holder, t.author_balance::text,
		       COALESCE(g.id, 0), COALESCE(g.holder, ''), COALESCE(t.target_balance::text, '')
		FROM transactions t
		JOIN accounts a ON a.id = t.author_id
		LEFT JOIN accounts g ON g.id = t.target_id
		WHERE t.author_id = $1 OR t.target_id = $1
		ORDER BY t.created_at DESC, t.id DESC`
)

// TransactionRepository implements ledger.Repository for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) *TransactionRepository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a copy of the repository bound to tx.
func (r *TransactionRepository) WithTx(tx pgx.Tx) *TransactionRepository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Save appends the record. The database assigns the ID and the timestamp.
func (r *TransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	if tx.Author == nil || tx.Kind() == ledger.KindInvalid {
		return nil, ledger.ErrInvalidTransaction
	}

	var targetID, targetBalance any
	if tx.Target != nil {
		targetID = tx.Target.ID
		targetBalance = numeric(*tx.TargetBalance)
	}

	stored := *tx
	err := r.querier.QueryRow(ctx, insertTransactionQuery,
		numeric(tx.Amount),
		tx.Author.ID,
		numeric(tx.AuthorBalance),
		targetID,
		targetBalance,
	).Scan(&stored.ID, &stored.Timestamp)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert transaction", "author_id", tx.Author.ID, "error", err)
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return &stored, nil
}

// FindAllByAccount returns the records touching the account, newest first.
// Author and Target carry only the ID and the holder.
func (r *TransactionRepository) FindAllByAccount(ctx context.Context, accountID int64) ([]*ledger.Transaction, error) {
	rows, err := r.querier.Query(ctx, selectTransactionsByAccountQuery, accountID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query transactions", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]*ledger.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan transaction", "account_id", accountID, "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Failed to iterate transactions", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

func scanTransaction(row pgx.Row) (*ledger.Transaction, error) {
	var (
		tx                                   ledger.Transaction
		author                               account.Account
		targetID                             int64
		targetHolder                         string
		amount, authorBalance, targetBalance string
	)
	err := row.Scan(
		&tx.ID, &tx.Timestamp, &amount,
		&author.ID, &author.Holder, &authorBalance,
		&targetID, &targetHolder, &targetBalance,
	)
	if err != nil {
		return nil, err
	}

	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if tx.AuthorBalance, err = decimal.NewFromString(authorBalance); err != nil {
		return nil, fmt.Errorf("invalid author balance %q: %w", authorBalance, err)
	}
	tx.Author = &author

	if targetID != 0 {
		tb, err := decimal.NewFromString(targetBalance)
		if err != nil {
			return nil, fmt.Errorf("invalid target balance %q: %w", targetBalance, err)
		}
		tx.Target = &account.Account{ID: targetID, Holder: targetHolder}
		tx.TargetBalance = &tb
	}

	return &tx, nil
}
