package store

import "context"

// Fixed keys under which the two planner collections are stored.
const (
	SubjectsKey      = "subjects"
	RevisionSlotsKey = "revisionSlots"
)

// KeyValueStore is a durable string-keyed store of opaque values.
// It plays the role browser local storage plays for the web client.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key holds no value.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the resources held by the store.
	Close() error
}

// BatchSetter is implemented by backends that can overwrite several keys as
// one unit. The Adapter uses it when a change touches both collections.
type BatchSetter interface {
	// SetMany writes every entry or none of them.
	SetMany(ctx context.Context, entries map[string][]byte) error
}
