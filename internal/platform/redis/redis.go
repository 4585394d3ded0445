// Package redis implements store.KeyValueStore on top of Redis strings.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/kopio/internal/config"
	"github.com/phrazzld/kopio/internal/store"
)

// Store keeps each planner key under a prefixed Redis string key.
type Store struct {
	rdb    goredis.UniversalClient
	prefix string
	logger *slog.Logger
}

var (
	_ store.KeyValueStore = (*Store)(nil)
	_ store.BatchSetter   = (*Store)(nil)
)

// Connect dials Redis using cfg and verifies the connection with PING.
func Connect(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Store, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return New(rdb, cfg.KeyPrefix, logger), nil
}

// New wraps an existing client. Keys are stored as prefix+key.
func New(rdb goredis.UniversalClient, prefix string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		rdb:    rdb,
		prefix: prefix,
		logger: logger.With(slog.String("component", "redis_store")),
	}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Get returns the value of the prefixed key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, mapError(err)
	}
	return val, nil
}

// Set overwrites the prefixed key. Values never expire.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return mapError(err)
	}
	return nil
}

// SetMany writes all entries in one MULTI/EXEC block.
func (s *Store) SetMany(ctx context.Context, entries map[string][]byte) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return mapError(err)
	}
	s.logger.Debug("wrote keys in transaction", slog.Int("count", len(entries)))
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

func mapError(err error) error {
	if errors.Is(err, goredis.ErrClosed) {
		return store.ErrClosed
	}
	return fmt.Errorf("redis: %w", err)
}
