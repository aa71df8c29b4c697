package invoice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/invoice/entity"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db), logger: logger}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var inv entity.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil || inv.PatientID == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	created, err := h.svc.Create(r.Context(), &inv)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment status"})
			return
		}
		h.logger.Errorw("invoice create failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "invoice create failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	rows, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Errorw("invoice list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "invoice list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListByPatient(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Errorw("invoice list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "invoice list failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, err, "invoice fetch failed")
		return
	}
	h.writeJSON(w, http.StatusOK, inv)
}

// PaymentRequest records a payment against an invoice.
type PaymentRequest struct {
	PaymentStatus string  `json:"payment_status"`
	PaymentMode   *string `json:"payment_mode,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`
	AmountPaid    float64 `json:"amount_paid"`
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	inv, err := h.svc.RecordPayment(r.Context(), r.PathValue("id"), req.PaymentStatus,
		req.PaymentMode, req.TransactionID, req.AmountPaid)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment status"})
			return
		}
		h.writeServiceError(w, err, "payment update failed")
		return
	}
	h.writeJSON(w, http.StatusOK, inv)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "invoice not found"})
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
