package domain

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// Snapshot is the value of both planner collections at a point in time.
//
// Mutation methods never modify the receiver: they return a new Snapshot and
// copy every slice they touch, so a Snapshot handed to a reader stays valid
// while the owner moves on. Subjects and chapters keep insertion order;
// slots are unordered.
type Snapshot struct {
	Subjects []Subject      `json:"subjects"`
	Slots    []RevisionSlot `json:"revisionSlots"`
}

// newID returns a fresh opaque identifier.
func newID() string {
	return uuid.NewString()
}

// Subject returns the subject with the given ID.
func (s Snapshot) Subject(id string) (Subject, bool) {
	if i := s.subjectIndex(id); i >= 0 {
		return s.Subjects[i], true
	}
	return Subject{}, false
}

// Slot returns the revision slot with the given ID.
func (s Snapshot) Slot(id string) (RevisionSlot, bool) {
	if i := s.slotIndex(id); i >= 0 {
		return s.Slots[i], true
	}
	return RevisionSlot{}, false
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Subjects: make([]Subject, len(s.Subjects)),
		Slots:    make([]RevisionSlot, len(s.Slots)),
	}
	for i, sub := range s.Subjects {
		out.Subjects[i] = sub.clone()
	}
	copy(out.Slots, s.Slots)
	return out
}

// AddSubject appends a subject created from a custom name. Colour and icon
// are assigned round-robin from the current number of subjects.
// Returns ErrEmptyName if name trims to empty.
func (s Snapshot) AddSubject(name string, typ SubjectType) (Snapshot, Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, Subject{}, ErrEmptyName
	}

	color, icon := paletteFor(len(s.Subjects))
	return s.appendSubject(Subject{
		ID:       newID(),
		Name:     name,
		Color:    color,
		Icon:     icon,
		Type:     typ,
		Chapters: []Chapter{},
	})
}

// AddSubjectFromTemplate appends a subject whose name, colour and icon come
// from a catalog template.
func (s Snapshot) AddSubjectFromTemplate(tmpl Template, typ SubjectType) (Snapshot, Subject, error) {
	name := strings.TrimSpace(tmpl.Name)
	if name == "" {
		return s, Subject{}, ErrEmptyName
	}

	return s.appendSubject(Subject{
		ID:       newID(),
		Name:     name,
		Color:    tmpl.Color,
		Icon:     tmpl.Icon,
		Type:     typ,
		Chapters: []Chapter{},
	})
}

func (s Snapshot) appendSubject(sub Subject) (Snapshot, Subject, error) {
	next := Snapshot{
		Subjects: make([]Subject, 0, len(s.Subjects)+1),
		Slots:    s.Slots,
	}
	next.Subjects = append(next.Subjects, s.Subjects...)
	next.Subjects = append(next.Subjects, sub)
	return next, sub, nil
}

// DeleteSubject removes a subject and every slot that references it.
// Returns ErrSubjectNotFound if no subject has that ID.
func (s Snapshot) DeleteSubject(id string) (Snapshot, error) {
	i := s.subjectIndex(id)
	if i < 0 {
		return s, ErrSubjectNotFound
	}

	next := Snapshot{
		Subjects: make([]Subject, 0, len(s.Subjects)-1),
	}
	next.Subjects = append(next.Subjects, s.Subjects[:i]...)
	next.Subjects = append(next.Subjects, s.Subjects[i+1:]...)
	next.Slots = s.cascade(func(slot RevisionSlot) bool {
		return slot.SubjectID == id
	})
	return next, nil
}

// AddChapter appends a chapter of default difficulty to a subject.
func (s Snapshot) AddChapter(subjectID, name string) (Snapshot, Chapter, error) {
	return s.AddChapterWithDifficulty(subjectID, name, DifficultyMoyen)
}

// AddChapterWithDifficulty appends a chapter to a subject. An unknown
// difficulty falls back to moyen.
// Returns ErrEmptyName for a blank name and ErrSubjectNotFound for an unknown subject.
func (s Snapshot) AddChapterWithDifficulty(subjectID, name string, difficulty Difficulty) (Snapshot, Chapter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, Chapter{}, ErrEmptyName
	}
	i := s.subjectIndex(subjectID)
	if i < 0 {
		return s, Chapter{}, ErrSubjectNotFound
	}
	if !difficulty.IsValid() {
		difficulty = DifficultyMoyen
	}

	chapter := Chapter{
		ID:         newID(),
		Name:       name,
		Difficulty: difficulty,
	}
	next := s.withSubject(i, func(sub *Subject) {
		sub.Chapters = append(sub.Chapters, chapter)
	})
	return next, chapter, nil
}

// ToggleChapterCompleted flips a chapter's completion flag. Slots and
// subject hours are not affected.
func (s Snapshot) ToggleChapterCompleted(subjectID, chapterID string) (Snapshot, Chapter, error) {
	i, j, err := s.chapterIndex(subjectID, chapterID)
	if err != nil {
		return s, Chapter{}, err
	}

	var toggled Chapter
	next := s.withSubject(i, func(sub *Subject) {
		sub.Chapters[j].Completed = !sub.Chapters[j].Completed
		toggled = sub.Chapters[j]
	})
	return next, toggled, nil
}

// DeleteChapter removes a chapter from its subject and deletes every slot
// that references it.
func (s Snapshot) DeleteChapter(subjectID, chapterID string) (Snapshot, error) {
	i, j, err := s.chapterIndex(subjectID, chapterID)
	if err != nil {
		return s, err
	}

	next := s.withSubject(i, func(sub *Subject) {
		sub.Chapters = append(sub.Chapters[:j], sub.Chapters[j+1:]...)
	})
	next.Slots = s.cascade(func(slot RevisionSlot) bool {
		return slot.ChapterID == chapterID
	})
	return next, nil
}

// SaveSlot stores a revision slot. When existingID names a stored slot it is
// replaced in place and keeps its ID and completion flag; otherwise a new,
// incomplete slot with a fresh ID is added. Completion only changes through
// ToggleSlotCompleted. When a completed slot changes duration or subject, its
// hours move with it so CompletedHours keeps matching the completed slots.
// Subject and chapter references are not checked; see SaveSlotChecked.
func (s Snapshot) SaveSlot(in SlotInput, existingID string) (Snapshot, RevisionSlot) {
	slot := RevisionSlot{
		SubjectID: in.SubjectID,
		ChapterID: in.ChapterID,
		Date:      in.Date,
		StartTime: in.StartTime,
		Duration:  in.Duration,
		Type:      in.Type,
		Priority:  in.Priority,
		Notes:     in.Notes,
	}

	if i := s.slotIndex(existingID); existingID != "" && i >= 0 {
		old := s.Slots[i]
		slot.ID = existingID
		slot.Completed = old.Completed

		next := Snapshot{Subjects: s.Subjects}
		switch {
		case !old.Completed:
		case old.SubjectID == slot.SubjectID:
			next = next.addCompletedHours(slot.SubjectID, slot.Hours()-old.Hours())
		default:
			next = next.addCompletedHours(old.SubjectID, -old.Hours())
			next = next.addCompletedHours(slot.SubjectID, slot.Hours())
		}
		next.Slots = make([]RevisionSlot, len(s.Slots))
		copy(next.Slots, s.Slots)
		next.Slots[i] = slot
		return next, slot
	}

	slot.ID = newID()
	next := Snapshot{Subjects: s.Subjects}
	next.Slots = make([]RevisionSlot, 0, len(s.Slots)+1)
	next.Slots = append(next.Slots, s.Slots...)
	next.Slots = append(next.Slots, slot)
	return next, slot
}

// SaveSlotChecked is SaveSlot for callers that need the references to hold:
// it returns ErrSubjectNotFound or ErrChapterNotFound, with the snapshot
// unchanged, when in names a subject or chapter that does not exist.
func (s Snapshot) SaveSlotChecked(in SlotInput, existingID string) (Snapshot, RevisionSlot, error) {
	subject, ok := s.Subject(in.SubjectID)
	if !ok {
		return s, RevisionSlot{}, ErrSubjectNotFound
	}
	if in.ChapterID != "" {
		if _, ok := subject.Chapter(in.ChapterID); !ok {
			return s, RevisionSlot{}, ErrChapterNotFound
		}
	}
	next, slot := s.SaveSlot(in, existingID)
	return next, slot, nil
}

// addCompletedHours adds delta to a subject's CompletedHours, clamped at
// zero. An unknown subject leaves the snapshot as it is.
func (s Snapshot) addCompletedHours(subjectID string, delta float64) Snapshot {
	i := s.subjectIndex(subjectID)
	if i < 0 || delta == 0 {
		return s
	}
	return s.withSubject(i, func(sub *Subject) {
		sub.CompletedHours = math.Max(0, sub.CompletedHours+delta)
	})
}

// DeleteSlot removes a revision slot. The referenced subject's completed
// hours are left as they are, even when the slot was completed.
func (s Snapshot) DeleteSlot(id string) (Snapshot, error) {
	if s.slotIndex(id) < 0 {
		return s, ErrSlotNotFound
	}
	next := Snapshot{Subjects: s.Subjects}
	next.Slots = s.cascade(func(slot RevisionSlot) bool {
		return slot.ID == id
	})
	return next, nil
}

// ToggleSlotCompleted flips a slot's completion flag and, in the same
// returned snapshot, moves duration/60 hours into or out of the referenced
// subject's CompletedHours (clamped at zero). A slot whose subject no longer
// exists is still toggled.
func (s Snapshot) ToggleSlotCompleted(id string) (Snapshot, RevisionSlot, error) {
	k := s.slotIndex(id)
	if k < 0 {
		return s, RevisionSlot{}, ErrSlotNotFound
	}

	slot := s.Slots[k]
	slot.Completed = !slot.Completed

	delta := slot.Hours()
	if !slot.Completed {
		delta = -delta
	}
	next := Snapshot{Subjects: s.Subjects}.addCompletedHours(slot.SubjectID, delta)

	next.Slots = make([]RevisionSlot, len(s.Slots))
	copy(next.Slots, s.Slots)
	next.Slots[k] = slot
	return next, slot, nil
}

// withSubject returns a snapshot whose i-th subject is a private copy
// modified by fn. Slots are shared with the receiver.
func (s Snapshot) withSubject(i int, fn func(*Subject)) Snapshot {
	subjects := make([]Subject, len(s.Subjects))
	copy(subjects, s.Subjects)
	sub := subjects[i].clone()
	fn(&sub)
	subjects[i] = sub
	return Snapshot{Subjects: subjects, Slots: s.Slots}
}

// cascade returns a new slot list without the slots matched by drop.
func (s Snapshot) cascade(drop func(RevisionSlot) bool) []RevisionSlot {
	kept := make([]RevisionSlot, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if !drop(slot) {
			kept = append(kept, slot)
		}
	}
	return kept
}

func (s Snapshot) subjectIndex(id string) int {
	for i, sub := range s.Subjects {
		if sub.ID == id {
			return i
		}
	}
	return -1
}

func (s Snapshot) slotIndex(id string) int {
	for i, slot := range s.Slots {
		if slot.ID == id {
			return i
		}
	}
	return -1
}

func (s Snapshot) chapterIndex(subjectID, chapterID string) (int, int, error) {
	i := s.subjectIndex(subjectID)
	if i < 0 {
		return -1, -1, ErrSubjectNotFound
	}
	for j, c := range s.Subjects[i].Chapters {
		if c.ID == chapterID {
			return i, j, nil
		}
	}
	return -1, -1, ErrChapterNotFound
}
