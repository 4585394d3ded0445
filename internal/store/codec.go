package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/phrazzld/kopio/internal/domain"
)

// subjectRecord is the persisted shape of a subject. Chapters is a pointer
// so that an absent field can be told apart from an empty list.
type subjectRecord struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Color          string           `json:"color"`
	Icon           string           `json:"icon"`
	Type           string           `json:"type"`
	Chapters       *[]chapterRecord `json:"chapters"`
	TotalHours     float64          `json:"totalHours"`
	CompletedHours float64          `json:"completedHours"`
}

type chapterRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Completed  bool   `json:"completed"`
	Difficulty string `json:"difficulty"`
}

// slotRecord is the persisted shape of a revision slot. The date travels as
// a string and is re-hydrated on decode.
type slotRecord struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	ChapterID string `json:"chapterId,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// subjectDefaulters upgrade records written by older versions. Each one
// fills in a single field that may be missing; a new field gets a new entry.
var subjectDefaulters = []func(*subjectRecord){
	// chapters did not exist in the first version
	func(r *subjectRecord) {
		if r.Chapters == nil {
			empty := []chapterRecord{}
			r.Chapters = &empty
		}
	},
	func(r *subjectRecord) {
		if !domain.SubjectType(r.Type).IsValid() {
			r.Type = string(domain.SubjectTypeAutre)
		}
	},
	func(r *subjectRecord) {
		for i := range *r.Chapters {
			c := &(*r.Chapters)[i]
			if !domain.Difficulty(c.Difficulty).IsValid() {
				c.Difficulty = string(domain.DifficultyMoyen)
			}
		}
	},
}

// slotDefaulters play the same role for revision slots.
var slotDefaulters = []func(*slotRecord){
	func(r *slotRecord) {
		if r.Type == "" {
			r.Type = string(domain.SlotTypeRevision)
		}
	},
	func(r *slotRecord) {
		if r.Priority == "" {
			r.Priority = string(domain.PriorityNormale)
		}
	},
}

// dateOnlyLayout is a bare calendar date.
const dateOnlyLayout = "2006-01-02"

// isoLayout is the JavaScript Date.toISOString format, used when writing
// slot dates.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// instantLayouts are tried in order when a stored date is not a bare
// calendar date. The first accepts toISOString output as well as RFC 3339;
// the second has no offset and is read in the planner's location.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// EncodeSubjects serializes the full subject collection.
func EncodeSubjects(subjects []domain.Subject) ([]byte, error) {
	records := make([]subjectRecord, 0, len(subjects))
	for _, s := range subjects {
		chapters := make([]chapterRecord, 0, len(s.Chapters))
		for _, c := range s.Chapters {
			chapters = append(chapters, chapterRecord{
				ID:         c.ID,
				Name:       c.Name,
				Completed:  c.Completed,
				Difficulty: string(c.Difficulty),
			})
		}
		records = append(records, subjectRecord{
			ID:             s.ID,
			Name:           s.Name,
			Color:          s.Color,
			Icon:           s.Icon,
			Type:           string(s.Type),
			Chapters:       &chapters,
			TotalHours:     s.TotalHours,
			CompletedHours: s.CompletedHours,
		})
	}
	return json.Marshal(records)
}

// DecodeSubjects parses a stored subject collection and upgrades records
// written by older versions.
func DecodeSubjects(data []byte) ([]domain.Subject, error) {
	var records []subjectRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: subjects: %v", ErrInvalidEntity, err)
	}

	subjects := make([]domain.Subject, 0, len(records))
	for _, r := range records {
		for _, apply := range subjectDefaulters {
			apply(&r)
		}

		chapters := make([]domain.Chapter, 0, len(*r.Chapters))
		for _, c := range *r.Chapters {
			chapters = append(chapters, domain.Chapter{
				ID:         c.ID,
				Name:       c.Name,
				Completed:  c.Completed,
				Difficulty: domain.Difficulty(c.Difficulty),
			})
		}
		subjects = append(subjects, domain.Subject{
			ID:             r.ID,
			Name:           r.Name,
			Color:          r.Color,
			Icon:           r.Icon,
			Type:           domain.SubjectType(r.Type),
			Chapters:       chapters,
			TotalHours:     r.TotalHours,
			CompletedHours: r.CompletedHours,
		})
	}
	return subjects, nil
}

// EncodeSlots serializes the full revision slot collection with dates
// bucketed in UTC. See EncodeSlotsIn.
func EncodeSlots(slots []domain.RevisionSlot) ([]byte, error) {
	return EncodeSlotsIn(slots, time.UTC)
}

// EncodeSlotsIn serializes the full revision slot collection. Each slot date
// is written as midnight of its calendar date in loc, expressed in UTC, which
// is what a browser in loc stores for the same day.
func EncodeSlotsIn(slots []domain.RevisionSlot, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}
	records := make([]slotRecord, 0, len(slots))
	for _, s := range slots {
		y, m, d := s.Date.Date()
		records = append(records, slotRecord{
			ID:        s.ID,
			SubjectID: s.SubjectID,
			ChapterID: s.ChapterID,
			Date:      time.Date(y, m, d, 0, 0, 0, 0, loc).UTC().Format(isoLayout),
			StartTime: s.StartTime,
			Duration:  s.Duration,
			Type:      string(s.Type),
			Priority:  string(s.Priority),
			Completed: s.Completed,
			Notes:     s.Notes,
		})
	}
	return json.Marshal(records)
}

// DecodeSlots parses a stored revision slot collection with dates bucketed
// in UTC. See DecodeSlotsIn.
func DecodeSlots(data []byte) ([]domain.RevisionSlot, error) {
	return DecodeSlotsIn(data, time.UTC)
}

// DecodeSlotsIn parses a stored revision slot collection. Slot dates become
// calendar dates (midnight UTC) of the day they fall on in loc.
func DecodeSlotsIn(data []byte, loc *time.Location) ([]domain.RevisionSlot, error) {
	var records []slotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: revision slots: %v", ErrInvalidEntity, err)
	}

	slots := make([]domain.RevisionSlot, 0, len(records))
	for _, r := range records {
		for _, apply := range slotDefaulters {
			apply(&r)
		}

		date, err := ParseDate(r.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: revision slot %s: %v", ErrInvalidEntity, r.ID, err)
		}
		slots = append(slots, domain.RevisionSlot{
			ID:        r.ID,
			SubjectID: r.SubjectID,
			ChapterID: r.ChapterID,
			Date:      date,
			StartTime: r.StartTime,
			Duration:  r.Duration,
			Type:      domain.SlotType(r.Type),
			Priority:  domain.Priority(r.Priority),
			Completed: r.Completed,
			Notes:     r.Notes,
		})
	}
	return slots, nil
}

// ParseDate reads a serialized slot date and returns the calendar date it
// names in loc, at midnight UTC. A bare "2006-01-02" is taken as is; an
// instant is first moved into loc, so a browser's local midnight stays on
// its own day.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t, nil
	}

	var lastErr error
	for _, layout := range instantLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return domain.DateOnly(t.In(loc)), nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: %w", value, lastErr)
}
