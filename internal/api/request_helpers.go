package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/kopio/internal/domain"
)

// dateLayout is the calendar date format used in URLs and query strings.
const dateLayout = "2006-01-02"

// getPathID extracts a non-empty identifier from the URL path parameters.
func getPathID(r *http.Request, paramName string) (string, error) {
	id := chi.URLParam(r, paramName)
	if id == "" {
		return "", domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}
	return id, nil
}

// parseCalendarDate reads YYYY-MM-DD or an RFC 3339 timestamp and returns
// midnight UTC of the calendar date it names. A timestamp is read as the day
// it falls on in loc.
func parseCalendarDate(field, value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return domain.DateOnly(t.In(orUTC(loc))), nil
	}
	return time.Time{}, domain.NewValidationError(field, "must be a date (YYYY-MM-DD)", domain.ErrValidation)
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
