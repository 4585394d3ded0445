package stats

import (
	"sort"
	"time"

	"github.com/phrazzld/kopio/internal/domain"
)

// Summary aggregates revision slots.
type Summary struct {
	Total            int     `json:"total"`
	Completed        int     `json:"completed"`
	TotalMinutes     int     `json:"totalMinutes"`
	CompletedMinutes int     `json:"completedMinutes"`
	Hours            int     `json:"hours"`            // floor(TotalMinutes / 60)
	RemainingMinutes int     `json:"remainingMinutes"` // TotalMinutes % 60
	CompletedHours   int     `json:"completedHours"`   // floor(CompletedMinutes / 60)
	Progress         float64 `json:"progress"`         // percentage, 0..100
}

// Day is one column of the weekly planning grid.
type Day struct {
	Date  time.Time             `json:"date"`
	Slots []domain.RevisionSlot `json:"slots"`
}

// ForSubject summarises the slots of one subject.
//
// Progress is completedMinutes / totalMinutes * 100, and 0 when the subject
// has no planned minutes.
func ForSubject(snap domain.Snapshot, subjectID string) Summary {
	sum := summarize(snap.Slots, func(slot domain.RevisionSlot) bool {
		return slot.SubjectID == subjectID
	})
	if sum.TotalMinutes > 0 {
		sum.Progress = float64(sum.CompletedMinutes) / float64(sum.TotalMinutes) * 100
	}
	return sum
}

// Overall summarises every slot in the snapshot.
//
// Progress is completedSlots / totalSlots * 100, and 0 when there are no
// slots. Unlike ForSubject it is not weighted by duration.
func Overall(snap domain.Snapshot) Summary {
	sum := summarize(snap.Slots, func(domain.RevisionSlot) bool { return true })
	if sum.Total > 0 {
		sum.Progress = float64(sum.Completed) / float64(sum.Total) * 100
	}
	return sum
}

func summarize(slots []domain.RevisionSlot, include func(domain.RevisionSlot) bool) Summary {
	var sum Summary
	for _, slot := range slots {
		if !include(slot) {
			continue
		}
		sum.Total++
		sum.TotalMinutes += slot.Duration
		if slot.Completed {
			sum.Completed++
			sum.CompletedMinutes += slot.Duration
		}
	}
	sum.Hours = sum.TotalMinutes / 60
	sum.RemainingMinutes = sum.TotalMinutes % 60
	sum.CompletedHours = sum.CompletedMinutes / 60
	return sum
}

// WeekDays returns the seven calendar dates, Monday first, of the week that
// contains anchor. Dates are at midnight in anchor's location.
func WeekDays(anchor time.Time) [7]time.Time {
	y, m, d := anchor.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, anchor.Location())

	// time.Weekday counts from Sunday; shift so Monday is 0.
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)

	var week [7]time.Time
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}

// DaySlots returns the slots that fall on the calendar date of date, ordered
// by start time. The "HH:MM" format is zero padded, so lexical order is
// chronological.
func DaySlots(snap domain.Snapshot, date time.Time) []domain.RevisionSlot {
	out := make([]domain.RevisionSlot, 0)
	for _, slot := range snap.Slots {
		if slot.OnDate(date) {
			out = append(out, slot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// Week builds the planning grid for the week containing anchor.
func Week(snap domain.Snapshot, anchor time.Time) []Day {
	days := WeekDays(anchor)
	out := make([]Day, 0, len(days))
	for _, d := range days {
		out = append(out, Day{Date: d, Slots: DaySlots(snap, d)})
	}
	return out
}
