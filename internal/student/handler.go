package student

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/text/language"

	"sumo-go/internal/logger"
	"sumo-go/internal/metrics"
	"sumo-go/internal/notify"
	"sumo-go/internal/student/ranking"
)

type Handler struct {
	service     Service
	defaultLang language.Tag
}

func NewHandler(service Service, defaultLang language.Tag) *Handler {
	return &Handler{
		service:     service,
		defaultLang: defaultLang,
	}
}

type LookupResponse struct {
	Student     *Student            `json:"student"`
	CurrentTier ranking.Tier        `json:"current_tier"`
	NextLevel   *ranking.NextLevel  `json:"next_level"`
	Celebration ranking.Celebration `json:"celebration"`
	Message     string              `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type LevelsResponse struct {
	Levels []ranking.Tier `json:"levels"`
}

func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	loc := notify.ForRequest(r.Header.Get("Accept-Language"), h.defaultLang)

	result, err := h.service.Lookup(r.Context(), ps.ByName("studentID"))
	if err != nil {
		status, key := statusForError(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(r.Context()).Error("Student lookup failed", "error", err)
		}
		respondJSON(w, status, ErrorResponse{
			Error:   http.StatusText(status),
			Message: loc.Text(key),
		})
		return
	}

	respondJSON(w, http.StatusOK, LookupResponse{
		Student:     result.Student,
		CurrentTier: result.CurrentTier,
		NextLevel:   result.NextLevel,
		Celebration: result.Celebration,
		Message:     loc.Text(notify.StudentFound),
	})
}

func (h *Handler) GetLevels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	respondJSON(w, http.StatusOK, LevelsResponse{Levels: h.service.Levels()})
}

// statusForError maps lookup errors to an HTTP status and a user notification.
// Source failures are reported as a generic search failure.
func statusForError(err error) (int, notify.Key) {
	switch {
	case errors.Is(err, ErrInvalidID):
		return http.StatusBadRequest, notify.InvalidID
	case errors.Is(err, ErrStudentNotFound):
		return http.StatusNotFound, notify.StudentNotFound
	case errors.Is(err, ErrInvalidRecord):
		return http.StatusUnprocessableEntity, notify.SearchFailed
	default:
		return http.StatusBadGateway, notify.SearchFailed
	}
}

func (h *Handler) Routes(router *httprouter.Router) {
	router.GET("/api/v1/students/:studentID", metrics.Instrument("/api/v1/students/:studentID", h.GetStudent))
	router.GET("/api/v1/levels", metrics.Instrument("/api/v1/levels", h.GetLevels))
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
