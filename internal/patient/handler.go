package patient

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/patient/entity"
)

// Handler exposes HTTP endpoints for patient records.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db), logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p entity.Patient
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Name == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	created, err := h.svc.Create(r.Context(), &p)
	if err != nil {
		h.logger.Errorw("patient create failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "patient create failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	patients, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Errorw("patient list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "patient list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, patients)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err, "patient fetch failed")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// Search matches name or mobile number by substring.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query required"})
		return
	}
	patients, err := h.svc.Search(r.Context(), q)
	if err != nil {
		h.logger.Errorw("patient search failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "patient search failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, patients)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var p entity.Patient
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	p.ID = r.PathValue("id")
	updated, err := h.svc.Update(r.Context(), &p)
	if err != nil {
		h.writeServiceError(w, err, "patient update failed")
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err, "patient delete failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "patient deleted"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "patient not found"})
		return
	}
	h.logger.Errorw(fallback, "err", err)
	h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fallback})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
