package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/river-banking-ledger/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.RedisConfig
		addrs []string
	}{
		{"single", config.RedisConfig{Addr: "localhost:6379", DB: 2}, []string{"localhost:6379"}},
		{"cluster", config.RedisConfig{Addr: "r1:6379, r2:6379,"}, []string{"r1:6379", "r2:6379"}},
		{"empty", config.RedisConfig{Addr: " "}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := RedisOptions(&tt.cfg)
			assert.Equal(t, tt.addrs, opts.Addrs)
			assert.Equal(t, tt.cfg.DB, opts.DB)
		})
	}
}

func TestNewRedis_MissingAddress(t *testing.T) {
	_, err := NewRedis(context.Background(), newTestLogger(), &config.RedisConfig{})
	assert.EqualError(t, err, "redis address is not configured")
}

func TestPingRedis(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetVal("PONG")

		assert.NoError(t, pingRedis(ctx, client))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectPing().SetErr(errors.New("connection refused"))

		err := pingRedis(ctx, client)
		assert.ErrorContains(t, err, "failed to ping Redis")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
