package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/river-banking-ledger/internal/config"
)

// RedisOptions builds client options from cfg. REDIS_ADDR may list several
// comma separated addresses, which selects a cluster client.
func RedisOptions(cfg *config.RedisConfig) *redis.UniversalOptions {
	var addrs []string
	for _, addr := range strings.Split(cfg.Addr, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			addrs = append(addrs, addr)
		}
	}
	return &redis.UniversalOptions{
		Addrs:    addrs,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewRedis opens a client for account locks and command de-duplication and
// checks that the server answers.
func NewRedis(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	opts := RedisOptions(cfg)
	if len(opts.Addrs) == 0 {
		return nil, fmt.Errorf("redis address is not configured")
	}

	client := redis.NewUniversalClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("Connected to Redis", "addrs", opts.Addrs, "db", cfg.DB)
	return client, nil
}

func pingRedis(ctx context.Context, client redis.UniversalClient) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
