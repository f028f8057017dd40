package ledger

import (
	"context"
	"errors"
	"strconv"

	"github.com/river-banking-ledger/internal/domain/account"
)

// ErrInvalidTransaction is returned when a record does not have one of the
// deposit, withdrawal or transfer shapes.
var ErrInvalidTransaction = errors.New("transaction has no valid shape")

// Repository manages the append-only transaction records
type Repository interface {
	// Save inserts a new record. The returned copy carries the ID and the
	// timestamp assigned by the store.
	Save(ctx context.Context, tx *Transaction) (*Transaction, error)

	// FindAllByAccount returns the records where the account is author or
	// target, most recent first.
	FindAllByAccount(ctx context.Context, accountID int64) ([]*Transaction, error)
}

// Store groups the repositories that must change together. The repositories
// returned by the Store passed to InTx are bound to one atomic transaction.
type Store interface {
	Accounts() account.Repository
	Transactions() Repository
	InTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}

// ErrDuplicateTransaction indicates a record that was already stored
type ErrDuplicateTransaction struct {
	TransactionID int64
}

func (e ErrDuplicateTransaction) Error() string {
	return "duplicate transaction: " + strconv.FormatInt(e.TransactionID, 10)
}

// Is implements the errors.Is interface for ErrDuplicateTransaction
func (e ErrDuplicateTransaction) Is(target error) bool {
	t, ok := target.(ErrDuplicateTransaction)
	if !ok {
		return false
	}
	if t.TransactionID == 0 {
		return true
	}
	return e.TransactionID == t.TransactionID
}
