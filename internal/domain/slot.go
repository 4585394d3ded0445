package domain

import "time"

// SlotType describes the kind of work planned in a revision slot.
type SlotType string

// Possible slot types
const (
	SlotTypeCours     SlotType = "cours"
	SlotTypeExercices SlotType = "exercices"
	SlotTypeTD        SlotType = "td"
	SlotTypeExamen    SlotType = "examen"
	SlotTypeRevision  SlotType = "revision"
)

// Priority is the user-assigned importance of a revision slot.
type Priority string

// Possible slot priorities
const (
	PriorityBasse   Priority = "basse"
	PriorityNormale Priority = "normale"
	PriorityHaute   Priority = "haute"
)

// RevisionSlot is a scheduled, timed study session. It refers to a Subject
// and optionally to one of that subject's chapters but is not owned by it.
type RevisionSlot struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subjectId"`
	ChapterID string    `json:"chapterId,omitempty"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"startTime"` // "HH:MM", zero padded
	Duration  int       `json:"duration"`  // minutes
	Type      SlotType  `json:"type"`
	Priority  Priority  `json:"priority"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
}

// SlotInput carries the caller-editable fields of a revision slot.
// Completion is not one of them; see Snapshot.ToggleSlotCompleted.
type SlotInput struct {
	SubjectID string
	ChapterID string
	Date      time.Time
	StartTime string
	Duration  int
	Type      SlotType
	Priority  Priority
	Notes     string
}

// Hours returns the slot duration expressed in hours.
func (s RevisionSlot) Hours() float64 {
	return float64(s.Duration) / 60
}

// OnDate reports whether the slot falls on the same calendar date as d.
// Time of day is ignored.
func (s RevisionSlot) OnDate(d time.Time) bool {
	return SameDay(s.Date, d)
}

// SameDay reports whether a and b share year, month and day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly truncates t to midnight of its calendar date, in UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
