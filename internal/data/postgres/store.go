package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/domain/ledger"
	"github.com/river-banking-ledger/internal/platform/persistence"
)

// Store implements ledger.Store on top of one PostgreSQL database.
type Store struct {
	db           *persistence.PostgresDB
	accounts     *AccountRepository
	transactions *TransactionRepository
	inTx         bool
}

var _ ledger.Store = (*Store)(nil)

func NewStore(logger *slog.Logger, db *persistence.PostgresDB) *Store {
	return &Store{
		db:           db,
		accounts:     NewAccountRepository(logger, db),
		transactions: NewTransactionRepository(logger, db),
	}
}

func (s *Store) Accounts() account.Repository {
	return s.accounts
}

func (s *Store) Transactions() ledger.Repository {
	return s.transactions
}

// InTx runs fn with a store whose repositories share one pgx transaction.
// Calls on a store that is already transactional join the open transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx ledger.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return fn(s.withTx(tx))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) withTx(tx pgx.Tx) *Store {
	return &Store{
		db:           s.db,
		accounts:     s.accounts.WithTx(tx),
		transactions: s.transactions.WithTx(tx),
		inTx:         true,
	}
}
