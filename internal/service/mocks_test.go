package service

import (
	"context"
	"sync"

	"github.com/phrazzld/kopio/internal/events"
)

// MockEventEmitter records emitted events, and the state of the context
// each one was emitted on, for assertions.
type MockEventEmitter struct {
	mu      sync.Mutex
	Events  []*events.SnapshotChangedEvent
	CtxErrs []error
	Err     error
}

// EmitEvent implements events.EventEmitter
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.SnapshotChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	m.CtxErrs = append(m.CtxErrs, ctx.Err())
	return m.Err
}

// SetErr changes the error returned by later emissions.
func (m *MockEventEmitter) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// Last returns the most recent event, or nil.
func (m *MockEventEmitter) Last() *events.SnapshotChangedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Events) == 0 {
		return nil
	}
	return m.Events[len(m.Events)-1]
}

// LastCtxErr returns ctx.Err() as seen by the most recent emission.
func (m *MockEventEmitter) LastCtxErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.CtxErrs) == 0 {
		return nil
	}
	return m.CtxErrs[len(m.CtxErrs)-1]
}

// Count returns the number of emitted events.
func (m *MockEventEmitter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}
