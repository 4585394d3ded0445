package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/kopio/internal/api/shared"
	"github.com/phrazzld/kopio/internal/domain"
	"github.com/phrazzld/kopio/internal/service"
)

// StatsHandler serves statistics and the weekly planning grid.
type StatsHandler struct {
	planner service.PlannerService
	now     func() time.Time
	loc     *time.Location
}

// NewStatsHandler creates a new StatsHandler. now supplies the current
// date for week requests that name none; nil means time.Now. Today is the
// current date in loc.
func NewStatsHandler(planner service.PlannerService, now func() time.Time, loc *time.Location) *StatsHandler {
	if now == nil {
		now = time.Now
	}
	return &StatsHandler{planner: planner, now: now, loc: orUTC(loc)}
}

// GetOverallStats handles GET /api/stats requests
func (h *StatsHandler) GetOverallStats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.planner.OverallStats(r.Context()))
}

// GetWeek handles GET /api/week?date=YYYY-MM-DD requests. Without a date
// the current week is returned.
func (h *StatsHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	anchor := domain.DateOnly(h.now().In(h.loc))
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseCalendarDate("date", raw, h.loc)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		anchor = parsed
	}

	days := h.planner.Week(r.Context(), anchor)
	week := h.planner.WeekDays(r.Context(), anchor)
	shared.RespondWithJSON(w, r, http.StatusOK, WeekResponse{
		Start: week[0].Format(dateLayout),
		End:   week[6].Format(dateLayout),
		Days:  days,
	})
}

// GetDaySlots handles GET /api/days/{date}/slots requests
func (h *StatsHandler) GetDaySlots(w http.ResponseWriter, r *http.Request) {
	date, err := parseCalendarDate("date", chi.URLParam(r, "date"), h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.planner.DaySlots(r.Context(), date))
}

// Health handles GET /health requests
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
