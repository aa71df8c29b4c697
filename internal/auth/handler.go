package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/user"
	"github.com/medekit/clinic-core/internal/user/entity"
)

// Handler exposes the login and current-user endpoints.
type Handler struct {
	gate   *Gate
	users  *user.Service
	logger *zap.SugaredLogger
}

func NewHandler(gate *Gate, users *user.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{gate: gate, users: users, logger: logger}
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the public user profile.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        entity.Profile `json:"user"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		h.logger.Errorw("login failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	tok, err := h.gate.tokens.Issue(u.Email, string(u.Role), u.ID)
	if err != nil {
		h.logger.Errorw("token issue failed", "err", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		User:        u.Profile(),
	})
}

// Me returns the profile of the user resolved from the bearer token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := entity.UserFrom(r.Context())
	if !ok {
		writeError(w, ErrUnauthorized)
		return
	}
	h.writeJSON(w, http.StatusOK, u.Profile())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
