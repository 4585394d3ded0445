package stats

import (
	"testing"
	"time"

	"github.com/phrazzld/kopio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestForSubject(t *testing.T) {
	t.Parallel()

	snap := domain.Snapshot{
		Slots: []domain.RevisionSlot{
			{ID: "1", SubjectID: "a", Duration: 60, Completed: true},
			{ID: "2", SubjectID: "a", Duration: 30},
			{ID: "3", SubjectID: "a", Duration: 45, Completed: true},
			{ID: "4", SubjectID: "b", Duration: 120, Completed: true},
		},
	}

	tests := []struct {
		name     string
		subject  string
		expected Summary
	}{
		{
			name:    "mixed completion",
			subject: "a",
			expected: Summary{
				Total:            3,
				Completed:        2,
				TotalMinutes:     135,
				CompletedMinutes: 105,
				Hours:            2,
				RemainingMinutes: 15,
				CompletedHours:   1,
				Progress:         float64(105) / float64(135) * 100,
			},
		},
		{
			name:    "fully completed",
			subject: "b",
			expected: Summary{
				Total:            1,
				Completed:        1,
				TotalMinutes:     120,
				CompletedMinutes: 120,
				Hours:            2,
				CompletedHours:   2,
				Progress:         100,
			},
		},
		{
			name:     "no slots means zero progress",
			subject:  "c",
			expected: Summary{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ForSubject(snap, tc.subject))
		})
	}
}

func TestForSubject_ZeroMinutes(t *testing.T) {
	t.Parallel()

	snap := domain.Snapshot{Slots: []domain.RevisionSlot{{ID: "1", SubjectID: "a", Duration: 0, Completed: true}}}
	got := ForSubject(snap, "a")
	assert.Equal(t, 1, got.Completed)
	assert.Zero(t, got.Progress, "progress is 0 whenever total minutes is 0")
}

func TestOverall_CountsSlotsNotMinutes(t *testing.T) {
	t.Parallel()

	snap := domain.Snapshot{
		Slots: []domain.RevisionSlot{
			{ID: "1", SubjectID: "a", Duration: 15, Completed: true},
			{ID: "2", SubjectID: "b", Duration: 165},
			{ID: "3", SubjectID: "b", Duration: 60},
			{ID: "4", SubjectID: "missing", Duration: 60},
		},
	}

	got := Overall(snap)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, 300, got.TotalMinutes)
	assert.Equal(t, 5, got.Hours)
	assert.Equal(t, 25.0, got.Progress)

	assert.Zero(t, Overall(domain.Snapshot{}).Progress)
}

func TestWeekDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		anchor time.Time
		monday time.Time
	}{
		{"wednesday", date(2024, time.March, 6), date(2024, time.March, 4)},
		{"monday", date(2024, time.March, 4), date(2024, time.March, 4)},
		{"sunday belongs to previous monday", date(2024, time.March, 10), date(2024, time.March, 4)},
		{"time of day ignored", time.Date(2024, time.March, 6, 22, 15, 0, 0, time.UTC), date(2024, time.March, 4)},
		{"across month boundary", date(2024, time.May, 1), date(2024, time.April, 29)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			week := WeekDays(tc.anchor)
			assert.Equal(t, tc.monday, week[0])
			assert.Equal(t, time.Monday, week[0].Weekday())
			assert.Equal(t, time.Sunday, week[6].Weekday())
			for i := 1; i < len(week); i++ {
				assert.Equal(t, week[i-1].AddDate(0, 0, 1), week[i], "days are consecutive")
			}
		})
	}
}

func TestDaySlots(t *testing.T) {
	t.Parallel()

	snap := domain.Snapshot{
		Slots: []domain.RevisionSlot{
			{ID: "late", Date: date(2024, time.March, 4), StartTime: "14:00"},
			{ID: "other-day", Date: date(2024, time.March, 5), StartTime: "08:00"},
			{ID: "early", Date: time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC), StartTime: "09:00"},
		},
	}

	got := DaySlots(snap, date(2024, time.March, 4))
	require.Len(t, got, 2)
	assert.Equal(t, "09:00", got[0].StartTime)
	assert.Equal(t, "14:00", got[1].StartTime)

	assert.Empty(t, DaySlots(snap, date(2024, time.March, 6)))
}

func TestWeek(t *testing.T) {
	t.Parallel()

	snap := domain.Snapshot{
		Slots: []domain.RevisionSlot{
			{ID: "1", Date: date(2024, time.March, 10), StartTime: "18:00"},
			{ID: "2", Date: date(2024, time.March, 10), StartTime: "07:30"},
			{ID: "3", Date: date(2024, time.March, 11), StartTime: "07:30"},
		},
	}

	week := Week(snap, date(2024, time.March, 6))
	require.Len(t, week, 7)
	for _, d := range week[:6] {
		assert.Empty(t, d.Slots)
	}
	require.Len(t, week[6].Slots, 2)
	assert.Equal(t, "2", week[6].Slots[0].ID)
}
