package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/river-banking-ledger/internal/domain/ledger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransactionRepository implements ledger.Repository for MongoDB
type TransactionRepository struct {
	collection *mongo.Collection
	ids        sequence
	session    mongo.Session
	now        func() time.Time
	logger     *slog.Logger
}

func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection(TransactionsCollectionName),
		ids: sequence{
			counters: db.Collection(CountersCollectionName),
			name:     TransactionsCollectionName,
		},
		now:    time.Now,
		logger: logger,
	}
}

func (r *TransactionRepository) withSession(session mongo.Session) *TransactionRepository {
	c := *r
	c.session = session
	return &c
}

func (r *TransactionRepository) bind(ctx context.Context) context.Context {
	if r.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, r.session)
}

// Save appends the record with a new ID and a millisecond timestamp, the
// precision of a BSON date.
func (r *TransactionRepository) Save(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error) {
	if tx.Author == nil || tx.Kind() == ledger.KindInvalid {
		return nil, ledger.ErrInvalidTransaction
	}
	ctx = r.bind(ctx)

	id, err := r.ids.next(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to allocate transaction id", "error", err)
		return nil, err
	}

	stored := *tx
	stored.ID = id
	stored.Timestamp = r.now().UTC().Truncate(time.Millisecond)

	doc, err := newTransactionDocument(&stored)
	if err != nil {
		return nil, err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ledger.ErrDuplicateTransaction{TransactionID: id}
		}
		r.logger.ErrorContext(ctx, "Failed to insert transaction", "author_id", tx.Author.ID, "error", err)
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return &stored, nil
}

// FindAllByAccount returns the records touching the account, newest first.
func (r *TransactionRepository) FindAllByAccount(ctx context.Context, accountID int64) ([]*ledger.Transaction, error) {
	ctx = r.bind(ctx)

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"accounts": accountID}, opts)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query transactions", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []transactionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.ErrorContext(ctx, "Failed to decode transactions", "account_id", accountID, "error", err)
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	txs := make([]*ledger.Transaction, 0, len(docs))
	for i := range docs {
		tx, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
