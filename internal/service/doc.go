// Package service contains the application-level use cases of the planner.
//
// PlannerService is the single owner of the current planner snapshot. Each
// operation computes the next snapshot with the pure functions of the domain
// package, swaps it in, and then emits a SnapshotChangedEvent naming the
// collections that changed. Persistence is a handler of that event; the
// service never talks to storage directly.
//
// Error handling:
//   - Domain sentinel errors (domain.ErrSubjectNotFound, domain.ErrEmptyName, ...)
//     are wrapped in a PlannerServiceError and stay reachable with errors.Is
//   - A failed mutation leaves the current snapshot untouched
//   - Persistence failures are logged and never undo an in-memory change
package service
