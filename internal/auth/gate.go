// Package auth composes the access gate guarding protected operations:
// token verification, current-user resolution, the active-account check,
// and the per-operation role allowlist.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/medekit/clinic-core/internal/token"
	"github.com/medekit/clinic-core/internal/user"
	"github.com/medekit/clinic-core/internal/user/entity"
)

var (
	// ErrUnauthorized covers a structurally valid token whose subject no
	// longer resolves to a user.
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAccountInactive = errors.New("account inactive")
	ErrForbidden       = errors.New("forbidden")
)

// Gate resolves bearer tokens to users and enforces role policy.
type Gate struct {
	tokens *token.Service
	users  *user.Service
}

func NewGate(tokens *token.Service, users *user.Service) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// ResolveUser verifies raw and loads the user it names. Token errors
// (token.ErrExpired, token.ErrInvalid) propagate unchanged; a token for a
// since-deleted user yields ErrUnauthorized even though the token itself
// still verifies.
func (g *Gate) ResolveUser(ctx context.Context, raw string) (*entity.User, error) {
	claims, err := g.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}
	u, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !strings.EqualFold(u.Email, claims.Subject) {
		return nil, ErrUnauthorized
	}
	return u, nil
}

// RequireActive rejects deactivated accounts.
func RequireActive(u *entity.User) error {
	if !u.Active {
		return ErrAccountInactive
	}
	return nil
}

// RequireRole checks the user's role against an allowlist. An empty
// allowlist admits any role.
func RequireRole(u *entity.User, allowed ...entity.Role) error {
	if len(allowed) == 0 {
		return nil
	}
	for _, r := range allowed {
		if u.Role == r {
			return nil
		}
	}
	return ErrForbidden
}

// Authorize runs the full gate for a protected operation:
// resolve -> active -> role, short-circuiting on the first failure.
func (g *Gate) Authorize(ctx context.Context, raw string, allowed ...entity.Role) (*entity.User, error) {
	u, err := g.ResolveUser(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := RequireActive(u); err != nil {
		return nil, err
	}
	if err := RequireRole(u, allowed...); err != nil {
		return nil, err
	}
	return u, nil
}
