// Package store defines the persistence contract of the planner: a small
// key-value interface that backends implement, and the Adapter that
// round-trips the subjects and revision slot collections through it.
// Concrete backends live under internal/platform.
package store
