package lock

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const accountKeyPrefix = "ledger:account-lock:"

// AccountLocker takes one Mutex per account so that several processes
// sharing a database never work on the same account at once.
type AccountLocker struct {
	client   redis.UniversalClient
	ttl      time.Duration
	wait     time.Duration
	newToken func() string
	logger   *slog.Logger
}

func NewAccountLocker(logger *slog.Logger, client redis.UniversalClient, ttl, wait time.Duration) *AccountLocker {
	return &AccountLocker{
		client:   client,
		ttl:      ttl,
		wait:     wait,
		newToken: uuid.NewString,
		logger:   logger,
	}
}

func AccountKey(accountID int64) string {
	return accountKeyPrefix + strconv.FormatInt(accountID, 10)
}

// Lock acquires the accounts in ascending order. On failure the locks taken
// so far are released before the error is returned.
func (l *AccountLocker) Lock(ctx context.Context, accountIDs ...int64) (func(), error) {
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	token := l.newToken()
	held := make([]*Mutex, 0, len(ids))

	for _, id := range ids {
		m := NewMutex(l.client, AccountKey(id), token)
		if err := m.Lock(ctx, l.ttl, l.wait); err != nil {
			l.release(ctx, held)
			return nil, err
		}
		held = append(held, m)
	}

	return func() { l.release(ctx, held) }, nil
}

func (l *AccountLocker) release(ctx context.Context, held []*Mutex) {
	// The caller's context may already be cancelled when we get here.
	ctx = context.WithoutCancel(ctx)
	for i := len(held) - 1; i >= 0; i-- {
		if err := held[i].Unlock(ctx); err != nil {
			l.logger.WarnContext(ctx, "Failed to release account lock", "key", held[i].Key(), "error", err)
		}
	}
}
