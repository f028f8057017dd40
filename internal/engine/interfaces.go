package engine

import (
	"context"

	"github.com/shopspring/decimal"
)

// Hasher produces the one-way digest stored for account PINs.
type Hasher interface {
	Hash(secret string) []byte
	Matches(secret string, digest []byte) bool
}

// Formatter renders amounts for display.
type Formatter interface {
	Format(amount decimal.Decimal) string
}

// AccountLocker serializes mutations of the same accounts across processes.
// Lock takes the locks in the order given and the returned function releases
// all of them.
type AccountLocker interface {
	Lock(ctx context.Context, accountIDs ...int64) (unlock func(), err error)
}

type noopLocker struct{}

func (noopLocker) Lock(context.Context, ...int64) (func(), error) {
	return func() {}, nil
}
