// Package bootstrap assembles the ledger engine and its backing services from
// configuration. Both binaries use it so they run the same engine.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/river-banking-ledger/internal/config"
	mongostore "github.com/river-banking-ledger/internal/data/mongo"
	"github.com/river-banking-ledger/internal/data/postgres"
	"github.com/river-banking-ledger/internal/domain/ledger"
	"github.com/river-banking-ledger/internal/engine"
	"github.com/river-banking-ledger/internal/platform/currency"
	"github.com/river-banking-ledger/internal/platform/lock"
	"github.com/river-banking-ledger/internal/platform/persistence"
	"github.com/river-banking-ledger/internal/platform/security"
)

// Ledger owns the engine and the connections it runs on.
type Ledger struct {
	Engine *engine.Engine
	Store  ledger.Store

	logger  *slog.Logger
	cfg     *config.Config
	redis   redis.UniversalClient
	closers []func(ctx context.Context) error
}

// OpenLedger connects the configured store and builds the engine. Redis is
// connected only when account locking is enabled.
func OpenLedger(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Ledger, error) {
	hasher, formatter, err := newCodecs(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Ledger codecs ready",
		"pin_hash_algorithm", hasher.Algorithm(),
		"currency", formatter.Code(),
		"currency_symbol", formatter.Symbol(),
	)

	l := &Ledger{logger: logger, cfg: cfg}

	store, err := l.openStore(ctx)
	if err != nil {
		l.Close(ctx)
		return nil, err
	}
	l.Store = store

	var locker engine.AccountLocker
	if cfg.Redis.LockEnabled {
		client, err := l.Redis(ctx)
		if err != nil {
			l.Close(ctx)
			return nil, err
		}
		locker = lock.NewAccountLocker(logger, client, cfg.Redis.LockTTL, cfg.Redis.LockWait)
		logger.Info("Distributed account locks enabled", "ttl", cfg.Redis.LockTTL.String())
	}

	l.Engine = engine.NewEngine(logger, store, hasher, formatter, locker)
	return l, nil
}

// Ping reports whether the store is reachable.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.Store.Ping(ctx)
}

// Redis returns the shared Redis client, connecting on first use.
func (l *Ledger) Redis(ctx context.Context) (redis.UniversalClient, error) {
	if l.redis != nil {
		return l.redis, nil
	}
	client, err := persistence.NewRedis(ctx, l.logger, &l.cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	l.redis = client
	l.closers = append(l.closers, func(context.Context) error { return client.Close() })
	return client, nil
}

// Close releases every connection in reverse order of opening.
func (l *Ledger) Close(ctx context.Context) error {
	var errs []error
	for i := len(l.closers) - 1; i >= 0; i-- {
		if err := l.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	l.closers = nil
	return errors.Join(errs...)
}

func (l *Ledger) openStore(ctx context.Context) (ledger.Store, error) {
	switch l.cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := persistence.NewPostgresDB(ctx, l.logger, &l.cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		l.closers = append(l.closers, func(context.Context) error { db.Close(); return nil })
		return postgres.NewStore(l.logger, db), nil

	case config.StorageDriverMongo:
		db, err := persistence.NewMongoDB(ctx, l.logger, &l.cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MongoDB: %w", err)
		}
		l.closers = append(l.closers, db.Close)
		if err := mongostore.EnsureIndexes(ctx, db.Database()); err != nil {
			return nil, err
		}
		return mongostore.NewStore(l.logger, db), nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", l.cfg.Storage.Driver)
	}
}

func newCodecs(cfg *config.Config) (*security.PinHasher, *currency.Formatter, error) {
	hasher, err := security.NewPinHasher(cfg.Ledger.PinHashAlgorithm, cfg.Ledger.PinHashPepper)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize PIN hasher: %w", err)
	}
	formatter := currency.NewFormatter(cfg.Ledger.CurrencyCode, int32(cfg.Ledger.CurrencyMinFractionDigits))
	return hasher, formatter, nil
}
