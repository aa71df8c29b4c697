package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/token"
	"github.com/medekit/clinic-core/internal/user/entity"
)

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(h[len("bearer "):]), true
}

// Require returns a middleware running the access gate with the given role
// allowlist. The authorized user is placed on the request context.
func (g *Gate) Require(logger *zap.SugaredLogger, allowed ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := BearerToken(r)
			if !ok {
				writeError(w, ErrUnauthorized)
				return
			}
			u, err := g.Authorize(r.Context(), raw, allowed...)
			if err != nil {
				logger.Debugw("request rejected by access gate",
					"path", r.URL.Path, "err", err)
				writeError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(entity.WithUser(r.Context(), u)))
		})
	}
}

// writeError maps gate failures to their response status: expiry is
// distinguishable so clients can silently re-prompt login, role rejection is
// 403, everything else in the gate is 401.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, token.ErrExpired):
		status, msg = http.StatusUnauthorized, "token expired"
	case errors.Is(err, token.ErrInvalid), errors.Is(err, ErrUnauthorized):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, ErrAccountInactive):
		status, msg = http.StatusUnauthorized, "account inactive"
	case errors.Is(err, ErrForbidden):
		status, msg = http.StatusForbidden, "forbidden"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
