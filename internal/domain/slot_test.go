package domain

import (
	"testing"
	"time"
)

func TestSameDay(t *testing.T) {
	t.Parallel()

	morning := time.Date(2024, time.March, 4, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2024, time.March, 4, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	if !SameDay(morning, evening) {
		t.Error("Expected times on the same date to match")
	}
	if SameDay(evening, nextDay) {
		t.Error("Expected consecutive dates not to match")
	}

	slot := RevisionSlot{Date: morning}
	if !slot.OnDate(DateOnly(evening)) {
		t.Error("Expected slot to be on its own date")
	}
}

func TestRevisionSlotHours(t *testing.T) {
	t.Parallel()

	if h := (RevisionSlot{Duration: 90}).Hours(); h != 1.5 {
		t.Errorf("Expected 1.5 hours, got %v", h)
	}
}

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	if !SubjectTypeChimie.IsValid() || SubjectType("histoire").IsValid() {
		t.Error("Unexpected SubjectType validity")
	}
	if !DifficultyFacile.IsValid() || Difficulty("").IsValid() {
		t.Error("Unexpected Difficulty validity")
	}
}
