package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/kopio/internal/service"
)

// RegisterRoutes mounts the planner endpoints under /api on r. loc is the
// planner time zone timestamps are bucketed into calendar days in; nil means
// UTC.
func RegisterRoutes(r chi.Router, planner service.PlannerService, logger *slog.Logger, loc *time.Location) {
	subjects := NewSubjectHandler(planner, logger)
	slots := NewSlotHandler(planner, logger, loc)
	statistics := NewStatsHandler(planner, nil, loc)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", subjects.GetSnapshot)
		r.Get("/templates", subjects.ListTemplates)

		// Subject and chapter endpoints
		r.Post("/subjects", subjects.CreateSubject)
		r.Post("/subjects/from-template", subjects.CreateSubjectFromTemplate)
		r.Delete("/subjects/{id}", subjects.DeleteSubject)
		r.Get("/subjects/{id}/stats", subjects.GetSubjectStats)
		r.Post("/subjects/{id}/chapters", subjects.CreateChapter)
		r.Post("/subjects/{id}/chapters/{chapterID}/toggle", subjects.ToggleChapter)
		r.Delete("/subjects/{id}/chapters/{chapterID}", subjects.DeleteChapter)

		// Revision slot endpoints
		r.Post("/slots", slots.CreateSlot)
		r.Put("/slots/{id}", slots.UpdateSlot)
		r.Delete("/slots/{id}", slots.DeleteSlot)
		r.Post("/slots/{id}/toggle", slots.ToggleSlot)

		// Statistics and planning grid
		r.Get("/stats", statistics.GetOverallStats)
		r.Get("/week", statistics.GetWeek)
		r.Get("/days/{date}/slots", statistics.GetDaySlots)
	})

	r.Get("/health", Health)
}
