// Package stats derives progress figures and calendar views from a planner
// snapshot.
//
// Every function here is pure: it reads a domain.Snapshot and returns fresh
// values without touching the snapshot. Results are recomputed on each call
// rather than cached.
//
// Two progress formulas coexist on purpose:
//   - per subject, progress is time weighted (completed minutes / total minutes)
//   - overall, progress is count weighted (completed slots / total slots)
package stats
