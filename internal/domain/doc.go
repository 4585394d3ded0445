// Package domain contains the core planner entities (subjects, chapters and
// revision slots), the immutable Snapshot that groups them, and the mutation
// rules that keep them consistent. It is independent of any storage or
// delivery mechanism.
package domain
