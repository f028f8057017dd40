// Package postgres provides PostgreSQL implementations of the ledger
// repositories and the store that binds them to one database transaction.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/platform/persistence"
	"github.com/shopspring/decimal"
)

const (
	// Numerics travel as text so the stored scale survives the round trip.
	accountColumns = `id, holder, pin_hash, balance::text, created_at, updated_at`

	insertAccountQuery = `
		INSERT INTO accounts (holder, pin_hash, balance, created_at, updated_at)
		VALUES ($1, $2, $3::numeric, $4, $5)
		RETURNING id`

	updateAccountQuery = `
		UPDATE accounts
		SET holder = $1, pin_hash = $2, balance = $3::numeric, updated_at = $4
		WHERE id = $5`

	selectAccountByIDQuery = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	selectAllAccountsQuery = `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`

	lockAccountQuery = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be the pool or a pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a repository that runs outside any transaction.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) *AccountRepository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a copy of the repository bound to tx.
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Save inserts a new account or updates the holder, PIN hash and balance of
// an existing one.
func (r *AccountRepository) Save(ctx context.Context, acc *account.Account) (*account.Account, error) {
	stored := acc.Clone()

	if stored.IsNew() {
		err := r.querier.QueryRow(ctx, insertAccountQuery,
			stored.Holder,
			stored.PinHash,
			numeric(stored.Balance),
			stored.CreatedAt,
			stored.UpdatedAt,
		).Scan(&stored.ID)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to create account", "error", err)
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		return stored, nil
	}

	result, err := r.querier.Exec(ctx, updateAccountQuery,
		stored.Holder,
		stored.PinHash,
		numeric(stored.Balance),
		stored.UpdatedAt,
		stored.ID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update account", "id", stored.ID, "error", err)
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return nil, account.ErrAccountNotFound{AccountID: stored.ID}
	}

	return stored, nil
}

// FindByID retrieves an account by its ID
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	acc, err := scanAccount(r.querier.QueryRow(ctx, selectAccountByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.ErrorContext(ctx, "Failed to get account", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return acc, nil
}

// FindAll returns every account ordered by ID.
func (r *AccountRepository) FindAll(ctx context.Context) ([]*account.Account, error) {
	rows, err := r.querier.Query(ctx, selectAllAccountsQuery)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*account.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Failed to iterate accounts", "error", err)
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// LockForUpdate obtains a row lock on the account and returns its current
// state. It must run inside a transaction.
func (r *AccountRepository) LockForUpdate(ctx context.Context, id int64) (*account.Account, error) {
	acc, err := scanAccount(r.querier.QueryRow(ctx, lockAccountQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.ErrorContext(ctx, "Failed to lock account for update", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}
	return acc, nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var (
		acc     account.Account
		balance string
	)
	if err := row.Scan(&acc.ID, &acc.Holder, &acc.PinHash, &balance, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}

	b, err := decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance %q for account %d: %w", balance, acc.ID, err)
	}
	acc.Balance = b
	return &acc, nil
}

// numeric renders d without dropping trailing fractional zeros.
func numeric(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}
