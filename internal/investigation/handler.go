package investigation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/investigation/entity"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db), logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var inv entity.Investigation
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil || inv.PatientID == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	created, err := h.svc.Create(r.Context(), &inv)
	if err != nil {
		h.logger.Errorw("investigation create failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "investigation create failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListByPatient(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Errorw("investigation list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "investigation list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err, "investigation fetch failed")
		return
	}
	h.writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var inv entity.Investigation
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	inv.ID = r.PathValue("id")
	updated, err := h.svc.Update(r.Context(), &inv)
	if err != nil {
		h.writeServiceError(w, err, "investigation update failed")
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, err, "investigation delete failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "investigation deleted"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "investigation not found"})
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
