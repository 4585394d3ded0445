// Package postgres provides a PostgreSQL implementation of the
// store.KeyValueStore interface. Planner collections are kept as rows of a
// single planner_entries table, whose schema is managed by embedded goose
// migrations.
package postgres
