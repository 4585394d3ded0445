package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kopio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotChangedEvent(t *testing.T) {
	snap := domain.Snapshot{Subjects: []domain.Subject{{ID: "s1", Name: "Analyse"}}}

	event := NewSnapshotChangedEvent("add_subject", snap, CollectionSubjects)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "add_subject", event.Operation)
	assert.Equal(t, snap, event.Snapshot)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	assert.True(t, event.Touches(CollectionSubjects))
	assert.False(t, event.Touches(CollectionRevisionSlots))

	other := NewSnapshotChangedEvent("add_subject", snap, CollectionSubjects)
	assert.NotEqual(t, event.ID, other.ID)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *SnapshotChangedEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *SnapshotChangedEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestEventHandler(t *testing.T) {
	handler := &MockEventHandler{}
	event := NewSnapshotChangedEvent("delete_slot", domain.Snapshot{}, CollectionRevisionSlots)

	err := handler.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, 1, handler.HandledCount)
	assert.Equal(t, event, handler.LastEvent)
}
