package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/kopio/internal/platform/logger"
	"github.com/phrazzld/kopio/internal/store"
)

const (
	getEntrySQL = `SELECT value FROM planner_entries WHERE key = $1`

	upsertEntrySQL = `
		INSERT INTO planner_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

// KVStore implements store.KeyValueStore over the planner_entries table.
type KVStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var (
	_ store.KeyValueStore = (*KVStore)(nil)
	_ store.BatchSetter   = (*KVStore)(nil)
)

// NewKVStore creates a KVStore. The store owns db and closes it on Close.
func NewKVStore(db *sql.DB, logger *slog.Logger) *KVStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &KVStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_kv_store")),
	}
}

// Get returns the value stored under key.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getEntrySQL, key).Scan(&value)
	if err != nil {
		return nil, MapError(err)
	}
	return []byte(value), nil
}

// Set upserts the value stored under key.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	return upsert(ctx, s.db, key, value)
}

// SetMany upserts every entry inside one transaction. The transaction logs
// through the request logger when ctx carries one.
func (s *KVStore) SetMany(ctx context.Context, entries map[string][]byte) error {
	ctx = logger.WithLogger(ctx, logger.FromContextOrDefault(ctx, s.logger))
	return store.WriteEntries(ctx, s.db, entries, func(ctx context.Context, tx *sql.Tx, key string, value []byte) error {
		return upsert(ctx, tx, key, value)
	})
}

// Close closes the connection pool.
func (s *KVStore) Close() error {
	return s.db.Close()
}

func upsert(ctx context.Context, db store.DBTX, key string, value []byte) error {
	if _, err := db.ExecContext(ctx, upsertEntrySQL, key, string(value)); err != nil {
		return MapError(err)
	}
	return nil
}
