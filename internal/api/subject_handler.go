package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/kopio/internal/api/shared"
	"github.com/phrazzld/kopio/internal/domain"
	"github.com/phrazzld/kopio/internal/platform/logger"
	"github.com/phrazzld/kopio/internal/redact"
	"github.com/phrazzld/kopio/internal/service"
)

// SubjectHandler handles subject and chapter requests.
type SubjectHandler struct {
	planner service.PlannerService
	logger  *slog.Logger
}

// NewSubjectHandler creates a new SubjectHandler
func NewSubjectHandler(planner service.PlannerService, logger *slog.Logger) *SubjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubjectHandler{
		planner: planner,
		logger:  logger.With(slog.String("component", "subject_handler")),
	}
}

// decodeAndValidate reads the request body into req. On failure it writes
// the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, log *slog.Logger, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// GetSnapshot handles GET /api/snapshot requests
func (h *SubjectHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.planner.Snapshot(r.Context()))
}

// ListTemplates handles GET /api/templates?category= requests
func (h *SubjectHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	category := domain.SubjectType(r.URL.Query().Get("category"))
	if !category.IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid category")
		return
	}

	templates := domain.Templates(category)
	if templates == nil {
		templates = []domain.Template{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, templates)
}

// CreateSubject handles POST /api/subjects requests
func (h *SubjectHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSubjectRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	subject, err := h.planner.AddSubject(r.Context(), req.Name, domain.SubjectType(req.Type))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create subject")
		return
	}

	log.Debug("subject created", slog.String("subject_id", subject.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, subject)
}

// CreateSubjectFromTemplate handles POST /api/subjects/from-template requests
func (h *SubjectHandler) CreateSubjectFromTemplate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSubjectFromTemplateRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	subject, err := h.planner.AddSubjectFromTemplate(r.Context(), domain.SubjectType(req.Type), req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create subject")
		return
	}

	log.Debug("subject created from template",
		slog.String("subject_id", subject.ID),
		slog.String("template", req.Name))
	shared.RespondWithJSON(w, r, http.StatusCreated, subject)
}

// DeleteSubject handles DELETE /api/subjects/{id} requests.
// The subject's revision slots are deleted with it.
func (h *SubjectHandler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.planner.DeleteSubject(r.Context(), subjectID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete subject")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSubjectStats handles GET /api/subjects/{id}/stats requests
func (h *SubjectHandler) GetSubjectStats(w http.ResponseWriter, r *http.Request) {
	subjectID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	subject, err := h.planner.Subject(r.Context(), subjectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get subject")
		return
	}
	summary, err := h.planner.SubjectStats(r.Context(), subjectID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubjectStatsResponse{Subject: subject, Stats: summary})
}

// CreateChapter handles POST /api/subjects/{id}/chapters requests
func (h *SubjectHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	subjectID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CreateChapterRequest
	if !decodeAndValidate(w, r, log, &req) {
		return
	}

	chapter, err := h.planner.AddChapter(r.Context(), subjectID, req.Name, domain.Difficulty(req.Difficulty))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add chapter")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, chapter)
}

// ToggleChapter handles POST /api/subjects/{id}/chapters/{chapterID}/toggle requests
func (h *SubjectHandler) ToggleChapter(w http.ResponseWriter, r *http.Request) {
	subjectID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	chapterID, err := getPathID(r, "chapterID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	chapter, err := h.planner.ToggleChapter(r.Context(), subjectID, chapterID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update chapter")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, chapter)
}

// DeleteChapter handles DELETE /api/subjects/{id}/chapters/{chapterID} requests.
// Revision slots targeting the chapter are deleted with it.
func (h *SubjectHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	subjectID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	chapterID, err := getPathID(r, "chapterID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.planner.DeleteChapter(r.Context(), subjectID, chapterID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete chapter")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
