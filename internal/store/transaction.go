package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/phrazzld/kopio/internal/platform/logger"
)

// EntryWriter stores one planner entry inside an open transaction.
type EntryWriter func(ctx context.Context, tx *sql.Tx, key string, value []byte) error

// TxBeginner is satisfied by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WriteEntries stores every entry in one transaction, so the subjects and
// revisionSlots keys are replaced together or not at all. Keys are written
// in sorted order, which makes concurrent batches lock rows in the same
// order. A failed or panicking write rolls the whole batch back.
func WriteEntries(ctx context.Context, db TxBeginner, entries map[string][]byte, write EntryWriter) error {
	if len(entries) == 0 {
		return nil
	}
	keys := slices.Sorted(maps.Keys(entries))
	log := logger.FromContext(ctx).With(slog.Any("keys", keys))

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin planner write", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to roll back planner write after panic",
					slog.String("error", rbErr.Error()),
					slog.Any("panic", p))
			} else {
				log.Error("rolled back planner write after panic", slog.Any("panic", p))
			}
			// ALLOW-PANIC: Propagating caught panic from transaction
			panic(p)
		}
	}()

	for _, key := range keys {
		if err := write(ctx, tx, key, entries[key]); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to roll back planner write",
					slog.String("key", key),
					slog.String("rollback_error", rbErr.Error()),
					slog.String("original_error", err.Error()))
				return fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, err)
			}
			log.Warn("planner write rolled back",
				slog.String("key", key),
				slog.String("error", err.Error()))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit planner write", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Debug("planner entries committed", slog.Int("entries", len(keys)))
	return nil
}
