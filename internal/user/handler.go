package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/user/entity"
)

// Handler exposes HTTP endpoints for account management.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, logger), logger: logger}
}

// Service returns the underlying account service for wiring into the gate.
func (h *Handler) Service() *Service { return h.svc }

// CreateRequest is the account registration payload.
type CreateRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role"})
		return
	}
	if req.Email == "" || req.Password == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password required"})
		return
	}
	u, err := h.svc.Register(r.Context(), req.Email, req.FullName, req.Password, role)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			h.writeJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
			return
		}
		h.logger.Errorw("user create failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "user create failed"})
		return
	}
	h.writeJSON(w, http.StatusCreated, u.Profile())
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	users, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Errorw("user list failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "user list failed"})
		return
	}
	out := make([]entity.Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	h.writeJSON(w, http.StatusOK, out)
}

// UpdateRoleRequest changes an account's role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}
	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role"})
		return
	}
	if err := h.svc.UpdateRole(r.Context(), id, role); err != nil {
		h.writeServiceError(w, err, "role update failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "role updated"})
}

// SetActiveRequest toggles an account's active flag.
type SetActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}
	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.svc.SetActive(r.Context(), id, req.Active); err != nil {
		h.writeServiceError(w, err, "status update failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "status updated"})
}

// ChangePasswordRequest carries the current and replacement password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword lets the authenticated user replace their own password.
// The caller is taken from the request context set by the access gate.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := entity.UserFrom(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.svc.ChangePassword(r.Context(), caller.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		h.writeServiceError(w, err, "password change failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
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
