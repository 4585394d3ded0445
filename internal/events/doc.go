// Package events provides types and interfaces for an event-driven architecture.
//
// The planner service emits a SnapshotChangedEvent after every mutation has
// settled. Handlers (the persistence adapter in production) react to it
// without the service knowing who they are.
//
// The primary components are:
// - SnapshotChangedEvent: names the collections a mutation replaced
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
