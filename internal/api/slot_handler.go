package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/kopio/internal/api/shared"
	"github.com/phrazzld/kopio/internal/domain"
	"github.com/phrazzld/kopio/internal/platform/logger"
	"github.com/phrazzld/kopio/internal/service"
)

// SlotHandler handles revision slot requests.
type SlotHandler struct {
	planner service.PlannerService
	loc     *time.Location
	logger  *slog.Logger
}

// NewSlotHandler creates a new SlotHandler. Slot timestamps are read as
// calendar days in loc.
func NewSlotHandler(planner service.PlannerService, logger *slog.Logger, loc *time.Location) *SlotHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlotHandler{
		planner: planner,
		loc:     orUTC(loc),
		logger:  logger.With(slog.String("component", "slot_handler")),
	}
}

// CreateSlot handles POST /api/slots requests
func (h *SlotHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	h.saveSlot(w, r, "", http.StatusCreated)
}

// UpdateSlot handles PUT /api/slots/{id} requests. An ID that names no
// stored slot creates a new one, which keeps the client's add-or-update
// form working after a concurrent delete.
func (h *SlotHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	h.saveSlot(w, r, slotID, http.StatusOK)
}

func (h *SlotHandler) saveSlot(w http.ResponseWriter, r *http.Request, existingID string, status int) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SlotRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	in, err := h.toSlotInput(req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	slot, err := h.planner.SaveSlot(r.Context(), in, existingID)
	if err != nil {
		HandleAPIError(w, r, slotReferenceError(err), "Failed to save revision slot")
		return
	}

	log.Debug("revision slot saved",
		slog.String("slot_id", slot.ID),
		slog.Bool("replaced", slot.ID == existingID))
	shared.RespondWithJSON(w, r, status, slot)
}

// toSlotInput parses the date and applies defaults. References are checked
// by the planner when the slot is saved.
func (h *SlotHandler) toSlotInput(req SlotRequest) (domain.SlotInput, error) {
	date, err := parseCalendarDate("date", req.Date, h.loc)
	if err != nil {
		return domain.SlotInput{}, err
	}

	in := domain.SlotInput{
		SubjectID: req.SubjectID,
		ChapterID: req.ChapterID,
		Date:      date,
		StartTime: req.StartTime,
		Duration:  req.Duration,
		Type:      domain.SlotType(req.Type),
		Priority:  domain.Priority(req.Priority),
		Notes:     req.Notes,
	}
	if in.Type == "" {
		in.Type = domain.SlotTypeRevision
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityNormale
	}
	return in, nil
}

// slotReferenceError reports a slot naming a missing subject or chapter as a
// bad request rather than a missing resource.
func slotReferenceError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSubjectNotFound):
		return domain.NewValidationError("subjectId", "unknown subject", domain.ErrValidation)
	case errors.Is(err, domain.ErrChapterNotFound):
		return domain.NewValidationError("chapterId", "unknown chapter", domain.ErrValidation)
	}
	return err
}

// DeleteSlot handles DELETE /api/slots/{id} requests
func (h *SlotHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.planner.DeleteSlot(r.Context(), slotID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete revision slot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleSlot handles POST /api/slots/{id}/toggle requests
func (h *SlotHandler) ToggleSlot(w http.ResponseWriter, r *http.Request) {
	slotID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	slot, err := h.planner.ToggleSlot(r.Context(), slotID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update revision slot")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, slot)
}
