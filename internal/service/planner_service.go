package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/phrazzld/kopio/internal/domain"
	"github.com/phrazzld/kopio/internal/domain/stats"
	"github.com/phrazzld/kopio/internal/events"
	"github.com/phrazzld/kopio/internal/platform/logger"
)

// Operation names, used in errors, logs and change events.
const (
	OpAddSubject             = "add_subject"
	OpAddSubjectFromTemplate = "add_subject_from_template"
	OpDeleteSubject          = "delete_subject"
	OpAddChapter             = "add_chapter"
	OpToggleChapter          = "toggle_chapter"
	OpDeleteChapter          = "delete_chapter"
	OpSaveSlot               = "save_slot"
	OpDeleteSlot             = "delete_slot"
	OpToggleSlot             = "toggle_slot"
)

// PersistTimeout bounds the persistence of one committed change.
const PersistTimeout = 10 * time.Second

// PlannerService provides the planner use cases.
type PlannerService interface {
	// Snapshot returns a deep copy of the current state.
	Snapshot(ctx context.Context) domain.Snapshot

	// Subject returns one subject, or ErrSubjectNotFound.
	Subject(ctx context.Context, subjectID string) (domain.Subject, error)

	// AddSubject creates a subject with a custom name.
	AddSubject(ctx context.Context, name string, typ domain.SubjectType) (domain.Subject, error)

	// AddSubjectFromTemplate creates a subject from the catalog entry named
	// templateName in category.
	AddSubjectFromTemplate(ctx context.Context, category domain.SubjectType, templateName string) (domain.Subject, error)

	// DeleteSubject removes a subject and its revision slots.
	DeleteSubject(ctx context.Context, subjectID string) error

	// AddChapter appends a chapter to a subject. An empty difficulty means moyen.
	AddChapter(ctx context.Context, subjectID, name string, difficulty domain.Difficulty) (domain.Chapter, error)

	// ToggleChapter flips the completion flag of a chapter.
	ToggleChapter(ctx context.Context, subjectID, chapterID string) (domain.Chapter, error)

	// DeleteChapter removes a chapter and the revision slots that target it.
	DeleteChapter(ctx context.Context, subjectID, chapterID string) error

	// SaveSlot replaces the slot named by existingID, or creates a new one
	// when existingID is empty or unknown. The referenced subject, and chapter
	// when set, must exist at commit time (ErrSubjectNotFound,
	// ErrChapterNotFound). Completion is kept from the stored slot.
	SaveSlot(ctx context.Context, in domain.SlotInput, existingID string) (domain.RevisionSlot, error)

	// DeleteSlot removes a revision slot.
	DeleteSlot(ctx context.Context, slotID string) error

	// ToggleSlot flips the completion flag of a slot and moves its hours
	// into or out of the subject's completed hours.
	ToggleSlot(ctx context.Context, slotID string) (domain.RevisionSlot, error)

	// SubjectStats summarises the slots of one subject.
	SubjectStats(ctx context.Context, subjectID string) (stats.Summary, error)

	// OverallStats summarises every slot.
	OverallStats(ctx context.Context) stats.Summary

	// WeekDays returns the Monday-first dates of the week containing anchor.
	WeekDays(ctx context.Context, anchor time.Time) [7]time.Time

	// DaySlots returns the slots of one calendar date, ordered by start time.
	DaySlots(ctx context.Context, date time.Time) []domain.RevisionSlot

	// Week returns the planning grid for the week containing anchor.
	Week(ctx context.Context, anchor time.Time) []stats.Day
}

// plannerServiceImpl implements the PlannerService interface
type plannerServiceImpl struct {
	mu      sync.RWMutex
	current domain.Snapshot
	unsaved map[events.Collection]bool
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewPlannerService creates a new PlannerService starting from initial.
// It returns an error if the emitter is nil.
func NewPlannerService(
	initial domain.Snapshot,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (PlannerService, error) {
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	if initial.Subjects == nil {
		initial.Subjects = []domain.Subject{}
	}
	if initial.Slots == nil {
		initial.Slots = []domain.RevisionSlot{}
	}

	return &plannerServiceImpl{
		current: initial,
		unsaved: make(map[events.Collection]bool),
		emitter: emitter,
		logger:  logger.With(slog.String("component", "planner_service")),
	}, nil
}

// commit runs mutate against the current snapshot. On success the result
// becomes current and a change event naming collections is emitted before
// the lock is released, so persisted state follows commit order.
//
// The event is emitted on a context detached from ctx's cancellation: once
// the change is visible in memory it must reach storage even if the caller
// has gone away. Collections whose write failed are named again by the next
// event until a write succeeds.
func (s *plannerServiceImpl) commit(
	ctx context.Context,
	operation string,
	message string,
	mutate func(domain.Snapshot) (domain.Snapshot, error),
	collections ...events.Collection,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("operation", operation))

	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mutate(s.current)
	if err != nil {
		log.Debug("mutation rejected", slog.String("error", err.Error()))
		return NewPlannerServiceError(operation, message, err)
	}
	s.current = next

	collections = s.withUnsaved(collections)
	event := events.NewSnapshotChangedEvent(operation, next.Clone(), collections...)

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PersistTimeout)
	defer cancel()

	if err := s.emitter.EmitEvent(persistCtx, event); err != nil {
		for _, c := range collections {
			s.unsaved[c] = true
		}
		// The in-memory change stands; the next commit rewrites these collections.
		log.Error("failed to persist planner change",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()),
			slog.Int("unsaved_collections", len(s.unsaved)))
		return nil
	}
	if len(s.unsaved) > 0 {
		log.Info("unsaved planner collections persisted", slog.Int("count", len(s.unsaved)))
		clear(s.unsaved)
	}
	return nil
}

// withUnsaved adds the collections left unsaved by earlier failures to
// collections. The caller holds the write lock.
func (s *plannerServiceImpl) withUnsaved(collections []events.Collection) []events.Collection {
	out := collections
	for _, c := range []events.Collection{events.CollectionSubjects, events.CollectionRevisionSlots} {
		if s.unsaved[c] && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// read runs fn under the read lock.
func (s *plannerServiceImpl) read(fn func(domain.Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.current)
}

// Snapshot implements PlannerService.Snapshot
func (s *plannerServiceImpl) Snapshot(_ context.Context) domain.Snapshot {
	var out domain.Snapshot
	s.read(func(snap domain.Snapshot) { out = snap.Clone() })
	return out
}

// Subject implements PlannerService.Subject
func (s *plannerServiceImpl) Subject(_ context.Context, subjectID string) (domain.Subject, error) {
	var (
		sub   domain.Subject
		found bool
	)
	// Snapshots are never modified in place, so the chapter list can be shared.
	s.read(func(snap domain.Snapshot) { sub, found = snap.Subject(subjectID) })
	if !found {
		return domain.Subject{}, NewPlannerServiceError("get_subject", "failed to get subject", domain.ErrSubjectNotFound)
	}
	return sub, nil
}

// AddSubject implements PlannerService.AddSubject
func (s *plannerServiceImpl) AddSubject(
	ctx context.Context,
	name string,
	typ domain.SubjectType,
) (domain.Subject, error) {
	var created domain.Subject
	err := s.commit(ctx, OpAddSubject, "failed to add subject",
		func(snap domain.Snapshot) (domain.Snapshot, error) {
			next, sub, err := snap.AddSubject(name, typ)
			created = sub
			return next, err
		},
		events.CollectionSubjects)
	if err != nil {
		return domain.Subject{}, err
	}
	return created, nil
}

// AddSubjectFromTemplate implements PlannerService.AddSubjectFromTemplate
func (s *plannerServiceImpl) AddSubjectFromTemplate(
	ctx context.Context,
	category domain.SubjectType,
	templateName string,
) (domain.Subject, error) {
	tmpl, err := domain.FindTemplate(category, templateName)
	if err != nil {
		return domain.Subject{}, NewPlannerServiceError(OpAddSubjectFromTemplate, "unknown template", err)
	}

	var created domain.Subject
	err = s.commit(ctx, OpAddSubjectFromTemplate, "failed to add subject",
		func(snap domain.Snapshot) (domain.Snapshot, error) {
			next, sub, err := snap.AddSubjectFromTemplate(tmpl, category)
			created = sub
			return next, err
		},
		events.CollectionSubjects)
	if err != nil {
		return domain.Subject{}, err
	}
	return created, nil
}

// DeleteSubject implements PlannerService.DeleteSubject
func (s *plannerServiceImpl) DeleteSubject(ctx context.Context, subjectID string) error {
	return s.commit(ctx, OpDeleteSubject, "failed to delete subject",
		func(snap domain.Snapshot) (domain.Snapshot, error) {
			return snap.DeleteSubject(subjectID)
		},
		events.CollectionSubjects, events.CollectionRevisionSlots)
}

// AddChapter implements PlannerService.AddChapter
func (s *plannerServiceImpl) AddChapter(
	ctx context.Context,
	subjectID, name string,
	difficulty domain.Difficulty,
) (domain.Chapter, error) {
	if difficulty == "" {
		difficulty = domain.DifficultyMoyen
	}

	var created domain.Chapter
	err := s.commit(ctx, OpAddChapter, "failed to add chapter",
		func(snap domain.Snapshot) (domain.Snapshot, error) {
			next, ch, err := snap.AddChapterWithDifficulty(subjectID, name, difficulty)
			created = ch
			return next, err
		},
		events.CollectionSubjects)
	if err != nil {
		return domain.Chapter{}, err
	}
	return created, nil
}

// ToggleChapter implements PlannerService.ToggleChapter
func (s *plannerServiceImpl) ToggleChapter(
	ctx context.Context,
	subjectID, chapterID string,
) (domain.Chapter, error) {
	var toggled domain.Chapter
	err := s.commit(ctx, OpToggleChapter, "failed to toggle chapter",
		func(snap domain.Snapshot) (domain.Snapshot, error) {
			next, ch, err := snap.ToggleChapterCompleted(subjectID, chapterID)
			toggled = ch
			return next, err
		},
		events.CollectionSubjects)
	if err != nil {
		return domain.Chapter{}, err
	}
	return toggled, nil
}

// DeleteChapter implements PlannerService.DeleteChapter
func (s *plannerServiceImpl) DeleteChapter(ctx context.Context, subjectID, chapterID string) error {
	return s.commit(ctx, OpDeleteChapter, "failed to delete chapter",
		func(snap domain.Snapshot) (domain.Snapshot, error) {
			return snap.DeleteChapter(subjectID, chapterID)
		},
		events.CollectionSubjects, events.CollectionRevisionSlots)
}

// SaveSlot implements PlannerService.SaveSlot
func (s *plannerServiceImpl) SaveSlot(
	ctx context.Context,
	in domain.SlotInput,
	existingID string,
) (domain.RevisionSlot, error) {
	var saved domain.RevisionSlot
	err := s.commit(ctx, OpSaveSlot, "failed to save revision slot",
		func(snap domain.Snapshot) (domain.Snapshot, error) {
			next, slot, err := snap.SaveSlotChecked(in, existingID)
			saved = slot
			return next, err
		},
		events.CollectionRevisionSlots)
	if err != nil {
		return domain.RevisionSlot{}, err
	}
	return saved, nil
}

// DeleteSlot implements PlannerService.DeleteSlot
func (s *plannerServiceImpl) DeleteSlot(ctx context.Context, slotID string) error {
	return s.commit(ctx, OpDeleteSlot, "failed to delete revision slot",
		func(snap domain.Snapshot) (domain.Snapshot, error) {
			return snap.DeleteSlot(slotID)
		},
		events.CollectionRevisionSlots)
}

// ToggleSlot implements PlannerService.ToggleSlot
func (s *plannerServiceImpl) ToggleSlot(ctx context.Context, slotID string) (domain.RevisionSlot, error) {
	var toggled domain.RevisionSlot
	err := s.commit(ctx, OpToggleSlot, "failed to toggle revision slot",
		func(snap domain.Snapshot) (domain.Snapshot, error) {
			next, slot, err := snap.ToggleSlotCompleted(slotID)
			toggled = slot
			return next, err
		},
		events.CollectionSubjects, events.CollectionRevisionSlots)
	if err != nil {
		return domain.RevisionSlot{}, err
	}
	return toggled, nil
}

// SubjectStats implements PlannerService.SubjectStats
func (s *plannerServiceImpl) SubjectStats(_ context.Context, subjectID string) (stats.Summary, error) {
	var (
		sum   stats.Summary
		found bool
	)
	s.read(func(snap domain.Snapshot) {
		if _, found = snap.Subject(subjectID); found {
			sum = stats.ForSubject(snap, subjectID)
		}
	})
	if !found {
		return stats.Summary{}, NewPlannerServiceError("subject_stats", "failed to compute statistics", domain.ErrSubjectNotFound)
	}
	return sum, nil
}

// OverallStats implements PlannerService.OverallStats
func (s *plannerServiceImpl) OverallStats(_ context.Context) stats.Summary {
	var sum stats.Summary
	s.read(func(snap domain.Snapshot) { sum = stats.Overall(snap) })
	return sum
}

// WeekDays implements PlannerService.WeekDays
func (s *plannerServiceImpl) WeekDays(_ context.Context, anchor time.Time) [7]time.Time {
	return stats.WeekDays(anchor)
}

// DaySlots implements PlannerService.DaySlots
func (s *plannerServiceImpl) DaySlots(_ context.Context, date time.Time) []domain.RevisionSlot {
	var out []domain.RevisionSlot
	s.read(func(snap domain.Snapshot) { out = stats.DaySlots(snap, date) })
	return out
}

// Week implements PlannerService.Week
func (s *plannerServiceImpl) Week(_ context.Context, anchor time.Time) []stats.Day {
	var out []stats.Day
	s.read(func(snap domain.Snapshot) { out = stats.Week(snap, anchor) })
	return out
}
