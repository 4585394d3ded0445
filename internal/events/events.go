package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kopio/internal/domain"
)

// Collection names one of the two top-level planner collections.
type Collection string

// The planner collections
const (
	CollectionSubjects      Collection = "subjects"
	CollectionRevisionSlots Collection = "revisionSlots"
)

// SnapshotChangedEvent reports that a mutation produced a new snapshot.
type SnapshotChangedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Operation is the mutation that produced the snapshot (e.g. "delete_subject")
	Operation string `json:"operation"`

	// Collections lists the collections whose value changed
	Collections []Collection `json:"collections"`

	// Snapshot is the state after the mutation
	Snapshot domain.Snapshot `json:"snapshot"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewSnapshotChangedEvent creates a new SnapshotChangedEvent.
func NewSnapshotChangedEvent(
	operation string,
	snapshot domain.Snapshot,
	collections ...Collection,
) *SnapshotChangedEvent {
	return &SnapshotChangedEvent{
		ID:          uuid.New(),
		Operation:   operation,
		Collections: collections,
		Snapshot:    snapshot,
		CreatedAt:   time.Now().UTC(),
	}
}

// Touches reports whether the event names collection c.
func (e *SnapshotChangedEvent) Touches(c Collection) bool {
	for _, changed := range e.Collections {
		if changed == c {
			return true
		}
	}
	return false
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *SnapshotChangedEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *SnapshotChangedEvent) error
}
