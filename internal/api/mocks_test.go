package api

import (
	"context"
	"time"

	"github.com/phrazzld/kopio/internal/domain"
	"github.com/phrazzld/kopio/internal/domain/stats"
)

// MockPlannerService is a function-field implementation of
// service.PlannerService. Unset functions return zero values.
type MockPlannerService struct {
	SnapshotFn               func(ctx context.Context) domain.Snapshot
	SubjectFn                func(ctx context.Context, subjectID string) (domain.Subject, error)
	AddSubjectFn             func(ctx context.Context, name string, typ domain.SubjectType) (domain.Subject, error)
	AddSubjectFromTemplateFn func(ctx context.Context, category domain.SubjectType, name string) (domain.Subject, error)
	DeleteSubjectFn          func(ctx context.Context, subjectID string) error
	AddChapterFn             func(ctx context.Context, subjectID, name string, difficulty domain.Difficulty) (domain.Chapter, error)
	ToggleChapterFn          func(ctx context.Context, subjectID, chapterID string) (domain.Chapter, error)
	DeleteChapterFn          func(ctx context.Context, subjectID, chapterID string) error
	SaveSlotFn               func(ctx context.Context, in domain.SlotInput, existingID string) (domain.RevisionSlot, error)
	DeleteSlotFn             func(ctx context.Context, slotID string) error
	ToggleSlotFn             func(ctx context.Context, slotID string) (domain.RevisionSlot, error)
	SubjectStatsFn           func(ctx context.Context, subjectID string) (stats.Summary, error)
}

func (m *MockPlannerService) Snapshot(ctx context.Context) domain.Snapshot {
	if m.SnapshotFn != nil {
		return m.SnapshotFn(ctx)
	}
	return domain.Snapshot{}
}

func (m *MockPlannerService) Subject(ctx context.Context, subjectID string) (domain.Subject, error) {
	if m.SubjectFn != nil {
		return m.SubjectFn(ctx, subjectID)
	}
	return domain.Subject{}, nil
}

func (m *MockPlannerService) AddSubject(ctx context.Context, name string, typ domain.SubjectType) (domain.Subject, error) {
	if m.AddSubjectFn != nil {
		return m.AddSubjectFn(ctx, name, typ)
	}
	return domain.Subject{}, nil
}

func (m *MockPlannerService) AddSubjectFromTemplate(ctx context.Context, category domain.SubjectType, name string) (domain.Subject, error) {
	if m.AddSubjectFromTemplateFn != nil {
		return m.AddSubjectFromTemplateFn(ctx, category, name)
	}
	return domain.Subject{}, nil
}

func (m *MockPlannerService) DeleteSubject(ctx context.Context, subjectID string) error {
	if m.DeleteSubjectFn != nil {
		return m.DeleteSubjectFn(ctx, subjectID)
	}
	return nil
}

func (m *MockPlannerService) AddChapter(ctx context.Context, subjectID, name string, difficulty domain.Difficulty) (domain.Chapter, error) {
	if m.AddChapterFn != nil {
		return m.AddChapterFn(ctx, subjectID, name, difficulty)
	}
	return domain.Chapter{}, nil
}

func (m *MockPlannerService) ToggleChapter(ctx context.Context, subjectID, chapterID string) (domain.Chapter, error) {
	if m.ToggleChapterFn != nil {
		return m.ToggleChapterFn(ctx, subjectID, chapterID)
	}
	return domain.Chapter{}, nil
}

func (m *MockPlannerService) DeleteChapter(ctx context.Context, subjectID, chapterID string) error {
	if m.DeleteChapterFn != nil {
		return m.DeleteChapterFn(ctx, subjectID, chapterID)
	}
	return nil
}

func (m *MockPlannerService) SaveSlot(ctx context.Context, in domain.SlotInput, existingID string) (domain.RevisionSlot, error) {
	if m.SaveSlotFn != nil {
		return m.SaveSlotFn(ctx, in, existingID)
	}
	return domain.RevisionSlot{}, nil
}

func (m *MockPlannerService) DeleteSlot(ctx context.Context, slotID string) error {
	if m.DeleteSlotFn != nil {
		return m.DeleteSlotFn(ctx, slotID)
	}
	return nil
}

func (m *MockPlannerService) ToggleSlot(ctx context.Context, slotID string) (domain.RevisionSlot, error) {
	if m.ToggleSlotFn != nil {
		return m.ToggleSlotFn(ctx, slotID)
	}
	return domain.RevisionSlot{}, nil
}

func (m *MockPlannerService) SubjectStats(ctx context.Context, subjectID string) (stats.Summary, error) {
	if m.SubjectStatsFn != nil {
		return m.SubjectStatsFn(ctx, subjectID)
	}
	return stats.Summary{}, nil
}

func (m *MockPlannerService) OverallStats(ctx context.Context) stats.Summary {
	return stats.Overall(m.Snapshot(ctx))
}

func (m *MockPlannerService) WeekDays(_ context.Context, anchor time.Time) [7]time.Time {
	return stats.WeekDays(anchor)
}

func (m *MockPlannerService) DaySlots(ctx context.Context, date time.Time) []domain.RevisionSlot {
	return stats.DaySlots(m.Snapshot(ctx), date)
}

func (m *MockPlannerService) Week(ctx context.Context, anchor time.Time) []stats.Day {
	return stats.Week(m.Snapshot(ctx), anchor)
}
