// Package mongo stores accounts and transactions in MongoDB. It is the
// alternative to the PostgreSQL store, selected with STORAGE_DRIVER=mongo.
package mongo

import (
	"fmt"
	"time"

	"github.com/river-banking-ledger/internal/domain/account"
	"github.com/river-banking-ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AccountsCollectionName     = "accounts"
	TransactionsCollectionName = "transactions"
	CountersCollectionName     = "counters"
)

type accountDocument struct {
	ID        int64                `bson:"_id"`
	Holder    string               `bson:"holder"`
	PinHash   []byte               `bson:"pin_hash"`
	Balance   primitive.Decimal128 `bson:"balance"`
	LockSeq   int64                `bson:"lock_seq"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

type partyDocument struct {
	ID     int64  `bson:"id"`
	Holder string `bson:"holder"`
}

// transactionDocument keeps holders denormalized so history reads need no
// join. Accounts lists author and target for the history index.
type transactionDocument struct {
	ID            int64                 `bson:"_id"`
	CreatedAt     time.Time             `bson:"created_at"`
	Amount        primitive.Decimal128  `bson:"amount"`
	Author        partyDocument         `bson:"author"`
	AuthorBalance primitive.Decimal128  `bson:"author_balance"`
	Target        *partyDocument        `bson:"target,omitempty"`
	TargetBalance *primitive.Decimal128 `bson:"target_balance,omitempty"`
	Accounts      []int64               `bson:"accounts"`
}

func newAccountDocument(acc *account.Account) (*accountDocument, error) {
	balance, err := toDecimal128(acc.Balance)
	if err != nil {
		return nil, err
	}
	return &accountDocument{
		ID:        acc.ID,
		Holder:    acc.Holder,
		PinHash:   acc.PinHash,
		Balance:   balance,
		CreatedAt: acc.CreatedAt,
		UpdatedAt: acc.UpdatedAt,
	}, nil
}

func (d *accountDocument) toDomain() (*account.Account, error) {
	balance, err := fromDecimal128(d.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance for account %d: %w", d.ID, err)
	}
	return &account.Account{
		ID:        d.ID,
		Holder:    d.Holder,
		PinHash:   d.PinHash,
		Balance:   balance,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func newTransactionDocument(tx *ledger.Transaction) (*transactionDocument, error) {
	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return nil, err
	}
	authorBalance, err := toDecimal128(tx.AuthorBalance)
	if err != nil {
		return nil, err
	}

	doc := &transactionDocument{
		ID:            tx.ID,
		CreatedAt:     tx.Timestamp,
		Amount:        amount,
		Author:        partyDocument{ID: tx.Author.ID, Holder: tx.Author.Holder},
		AuthorBalance: authorBalance,
		Accounts:      []int64{tx.Author.ID},
	}
	if tx.Target != nil {
		targetBalance, err := toDecimal128(*tx.TargetBalance)
		if err != nil {
			return nil, err
		}
		doc.Target = &partyDocument{ID: tx.Target.ID, Holder: tx.Target.Holder}
		doc.TargetBalance = &targetBalance
		doc.Accounts = append(doc.Accounts, tx.Target.ID)
	}
	return doc, nil
}

func (d *transactionDocument) toDomain() (*ledger.Transaction, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount for transaction %d: %w", d.ID, err)
	}
	authorBalance, err := fromDecimal128(d.AuthorBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid author balance for transaction %d: %w", d.ID, err)
	}

	tx := &ledger.Transaction{
		ID:            d.ID,
		Timestamp:     d.CreatedAt,
		Amount:        amount,
		Author:        &account.Account{ID: d.Author.ID, Holder: d.Author.Holder},
		AuthorBalance: authorBalance,
	}
	if d.Target != nil && d.TargetBalance != nil {
		targetBalance, err := fromDecimal128(*d.TargetBalance)
		if err != nil {
			return nil, fmt.Errorf("invalid target balance for transaction %d: %w", d.ID, err)
		}
		tx.Target = &account.Account{ID: d.Target.ID, Holder: d.Target.Holder}
		tx.TargetBalance = &targetBalance
	}
	return tx, nil
}

// toDecimal128 keeps trailing fractional zeros, so 0.00 stays 0.00.
func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	s := d.String()
	if exp := d.Exponent(); exp < 0 {
		s = d.StringFixed(-exp)
	}
	v, err := primitive.ParseDecimal128(s)
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert %s to decimal128: %w", s, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(v.String())
}
