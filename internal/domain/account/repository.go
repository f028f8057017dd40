package account

import (
	"context"
	"strconv"
)

// Repository defines account persistence operations
type Repository interface {
	// Save inserts the account when it has no ID and updates it otherwise.
	// The returned account carries the stored ID and timestamps.
	Save(ctx context.Context, account *Account) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
	FindAll(ctx context.Context) ([]*Account, error)

	// LockForUpdate loads the account and holds it until the enclosing
	// store transaction ends.
	LockForUpdate(ctx context.Context, id int64) (*Account, error)
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID int64
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + strconv.FormatInt(e.AccountID, 10)
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	// A zero target ID matches any missing account
	if t.AccountID == 0 {
		return true
	}
	return e.AccountID == t.AccountID
}
