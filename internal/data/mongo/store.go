package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/domain/ledger"
	"github.com/river-banking-ledger/internal/platform/persistence"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store implements ledger.Store with multi-document transactions. It needs
// a replica set or a sharded cluster.
type Store struct {
	db           *persistence.MongoDB
	accounts     *AccountRepository
	transactions *TransactionRepository
	inTx         bool
}

var _ ledger.Store = (*Store)(nil)

func NewStore(logger *slog.Logger, db *persistence.MongoDB) *Store {
	return &Store{
		db:           db,
		accounts:     NewAccountRepository(logger, db.Database()),
		transactions: NewTransactionRepository(logger, db.Database()),
	}
}

func (s *Store) Accounts() account.Repository {
	return s.accounts
}

func (s *Store) Transactions() ledger.Repository {
	return s.transactions
}

// InTx runs fn inside one session transaction. The driver may run fn again
// on a transient error such as a write conflict on a locked account.
func (s *Store) InTx(ctx context.Context, fn func(tx ledger.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.ExecuteTx(ctx, func(sessCtx mongo.SessionContext) error {
		return fn(s.withSession(mongo.SessionFromContext(sessCtx)))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) withSession(session mongo.Session) *Store {
	return &Store{
		db:           s.db,
		accounts:     s.accounts.withSession(session),
		transactions: s.transactions.withSession(session),
		inTx:         true,
	}
}

// EnsureIndexes creates the history index. It is safe to call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(TransactionsCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "accounts", Value: 1},
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("accounts_created_at"),
	})
	if err != nil {
		return fmt.Errorf("failed to create transactions index: %w", err)
	}
	return nil
}
