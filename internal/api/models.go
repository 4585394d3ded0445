package api

import (
	"github.com/phrazzld/kopio/internal/domain"
	"github.com/phrazzld/kopio/internal/domain/stats"
)

// CreateSubjectRequest defines the payload for creating a custom subject.
type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Type string `json:"type" validate:"required,oneof=info maths physique chimie autre"`
}

// CreateSubjectFromTemplateRequest selects a catalog template by name.
type CreateSubjectFromTemplateRequest struct {
	Type string `json:"type" validate:"required,oneof=info maths physique chimie"`
	Name string `json:"name" validate:"required"`
}

// CreateChapterRequest defines the payload for adding a chapter.
// Difficulty defaults to moyen.
type CreateChapterRequest struct {
	Name       string `json:"name"       validate:"required,max=200"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=facile moyen difficile"`
}

// SlotRequest is the editable shape of a revision slot. Date accepts
// YYYY-MM-DD or an RFC 3339 timestamp; only the calendar date is kept.
// Type defaults to revision and Priority to normale. Completion is not part
// of the request; it changes through POST /api/slots/{id}/toggle only.
type SlotRequest struct {
	SubjectID string `json:"subjectId" validate:"required"`
	ChapterID string `json:"chapterId"`
	Date      string `json:"date"      validate:"required"`
	StartTime string `json:"startTime" validate:"required,clocktime"`
	Duration  int    `json:"duration"  validate:"required,min=15,quarterhour"`
	Type      string `json:"type"      validate:"omitempty,oneof=cours exercices td examen revision"`
	Priority  string `json:"priority"  validate:"omitempty,oneof=basse normale haute"`
	Notes     string `json:"notes"     validate:"max=2000"`
}

// WeekResponse is the planning grid of one week.
type WeekResponse struct {
	Start string      `json:"start"` // Monday, YYYY-MM-DD
	End   string      `json:"end"`   // Sunday, YYYY-MM-DD
	Days  []stats.Day `json:"days"`
}

// SubjectStatsResponse pairs a subject with its slot statistics.
type SubjectStatsResponse struct {
	Subject domain.Subject `json:"subject"`
	Stats   stats.Summary  `json:"stats"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
