// Package lock provides Redis-backed mutual exclusion for ledger accounts.
package lock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

const unlockScript = "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"

var (
	ErrLockHeld    = errors.New("lock is already held")
	ErrNotHolder   = errors.New("lock expired or is held by another owner")
	ErrWaitTimeout = errors.New("lock not acquired within the wait timeout")
)

// Mutex is a single Redis key owned by whoever stored token in it.
type Mutex struct {
	client redis.UniversalClient
	key    string
	token  string
}

func NewMutex(client redis.UniversalClient, key, token string) *Mutex {
	return &Mutex{client: client, key: key, token: token}
}

func (m *Mutex) Key() string {
	return m.key
}

// TryLock makes one attempt to take the key for ttl.
func (m *Mutex) TryLock(ctx context.Context, ttl time.Duration) error {
	ok, err := m.client.SetNX(ctx, m.key, m.token, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", m.key, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", m.key, ErrLockHeld)
	}
	return nil
}

// Lock retries TryLock with a short random pause until wait has elapsed.
// At least one attempt is made even when wait is zero.
func (m *Mutex) Lock(ctx context.Context, ttl, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		err := m.TryLock(ctx, ttl)
		if err == nil || !errors.Is(err, ErrLockHeld) {
			return err
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("%s: %w", m.key, ErrWaitTimeout)
		}

		pause := time.Duration(10+rand.Intn(90)) * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
}

// Unlock deletes the key only if it still holds this mutex's token.
func (m *Mutex) Unlock(ctx context.Context) error {
	result, err := m.client.Eval(ctx, unlockScript, []string{m.key}, m.token).Result()
	if err != nil {
		return fmt.Errorf("failed to unlock %s: %w", m.key, err)
	}
	if result == int64(0) {
		return fmt.Errorf("%s: %w", m.key, ErrNotHolder)
	}
	return nil
}
