package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/river-banking-ledger/internal/domain/account"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AccountRepository implements account.Repository for MongoDB
type AccountRepository struct {
	collection *mongo.Collection
	ids        sequence
	session    mongo.Session
	logger     *slog.Logger
}

func NewAccountRepository(logger *slog.Logger, db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		collection: db.Collection(AccountsCollectionName),
		ids: sequence{
			counters: db.Collection(CountersCollectionName),
			name:     AccountsCollectionName,
			offset:   accountIDOffset,
		},
		logger: logger,
	}
}

// withSession returns a copy whose operations join the session's transaction.
func (r *AccountRepository) withSession(session mongo.Session) *AccountRepository {
	c := *r
	c.session = session
	return &c
}

func (r *AccountRepository) bind(ctx context.Context) context.Context {
	if r.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, r.session)
}

// Save inserts the account under a freshly allocated number when it is new
// and replaces its mutable fields otherwise.
func (r *AccountRepository) Save(ctx context.Context, acc *account.Account) (*account.Account, error) {
	ctx = r.bind(ctx)
	stored := acc.Clone()

	if stored.IsNew() {
		id, err := r.ids.next(ctx)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to allocate account number", "error", err)
			return nil, err
		}
		stored.ID = id

		doc, err := newAccountDocument(stored)
		if err != nil {
			return nil, err
		}
		if _, err := r.collection.InsertOne(ctx, doc); err != nil {
			r.logger.ErrorContext(ctx, "Failed to create account", "id", id, "error", err)
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		return stored, nil
	}

	doc, err := newAccountDocument(stored)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{
		"holder":     doc.Holder,
		"pin_hash":   doc.PinHash,
		"balance":    doc.Balance,
		"updated_at": doc.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": stored.ID}, update)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update account", "id", stored.ID, "error", err)
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, account.ErrAccountNotFound{AccountID: stored.ID}
	}

	return stored, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	ctx = r.bind(ctx)

	var doc accountDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.ErrorContext(ctx, "Failed to get account", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return doc.toDomain()
}

// FindAll returns every account ordered by number.
func (r *AccountRepository) FindAll(ctx context.Context) ([]*account.Account, error) {
	ctx = r.bind(ctx)

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.ErrorContext(ctx, "Failed to decode accounts", "error", err)
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}

	accounts := make([]*account.Account, 0, len(docs))
	for i := range docs {
		acc, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// LockForUpdate bumps the account's lock sequence, which gives the enclosing
// transaction a write lock on the document. A concurrent transaction touching
// the same account hits a write conflict and is retried by the driver.
func (r *AccountRepository) LockForUpdate(ctx context.Context, id int64) (*account.Account, error) {
	ctx = r.bind(ctx)

	var doc accountDocument
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"lock_seq": int64(1)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.ErrorContext(ctx, "Failed to lock account for update", "id", id, "error", err)
		return nil, fmt.Errorf("failed to lock account for update: %w", err)
	}
	return doc.toDomain()
}
