package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/phrazzld/kopio/internal/store"
	"github.com/phrazzld/kopio/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upsertSQL = `INSERT INTO planner_entries (key, value) VALUES ($1, $2)`

func execUpsert(ctx context.Context, tx *sql.Tx, key string, value []byte) error {
	_, err := tx.ExecContext(ctx, upsertSQL, key, string(value))
	return err
}

func plannerEntries() map[string][]byte {
	return map[string][]byte{
		store.SubjectsKey:      []byte(`[]`),
		store.RevisionSlotsKey: []byte(`[]`),
	}
}

func TestWriteEntries_CommitsBothKeysInOrder(t *testing.T) {
	fake := testutils.NewFakeSQL()
	db := fake.DB()
	defer db.Close()

	err := store.WriteEntries(context.Background(), db, plannerEntries(), execUpsert)

	require.NoError(t, err)
	assert.Equal(t, []string{store.RevisionSlotsKey, store.SubjectsKey}, fake.Keys())
	assert.Equal(t, 1, fake.Commits())
	assert.Zero(t, fake.Rollbacks())
}

func TestWriteEntries_RollsBackOnFailedKey(t *testing.T) {
	fake := testutils.NewFakeSQL()
	boom := errors.New("value too long")
	fake.FailKey(store.SubjectsKey, boom)
	db := fake.DB()
	defer db.Close()

	err := store.WriteEntries(context.Background(), db, plannerEntries(), execUpsert)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{store.RevisionSlotsKey}, fake.Keys(), "keys before the failure were attempted")
	assert.Zero(t, fake.Commits())
	assert.Equal(t, 1, fake.Rollbacks())
}

func TestWriteEntries_RollsBackOnPanic(t *testing.T) {
	fake := testutils.NewFakeSQL()
	db := fake.DB()
	defer db.Close()

	assert.Panics(t, func() {
		_ = store.WriteEntries(context.Background(), db, plannerEntries(),
			func(context.Context, *sql.Tx, string, []byte) error { panic("encoder bug") })
	})
	assert.Zero(t, fake.Commits())
	assert.Equal(t, 1, fake.Rollbacks())
}

func TestWriteEntries_BeginFailure(t *testing.T) {
	fake := testutils.NewFakeSQL()
	beginErr := errors.New("connection refused")
	fake.FailBegin(beginErr)
	db := fake.DB()
	defer db.Close()
	called := false

	err := store.WriteEntries(context.Background(), db, plannerEntries(),
		func(context.Context, *sql.Tx, string, []byte) error {
			called = true
			return nil
		})

	assert.ErrorIs(t, err, beginErr)
	assert.False(t, called, "nothing is written without a transaction")
}

func TestWriteEntries_Empty(t *testing.T) {
	fake := testutils.NewFakeSQL()
	db := fake.DB()
	defer db.Close()

	require.NoError(t, store.WriteEntries(context.Background(), db, nil, execUpsert))
	assert.Zero(t, fake.Commits(), "no transaction for an empty batch")
}
