package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/token"
	"github.com/medekit/clinic-core/internal/user"
	"github.com/medekit/clinic-core/internal/user/entity"
)

var userCols = []string{
	"id", "email", "full_name", "role", "active",
	"password_hash", "password_scheme", "created_at", "updated_at",
}

func userRow(role string, active bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userCols).AddRow(
		int64(7), "a@b.com", "A B", role, active,
		"$2a$12$unused", "bcrypt", now, now,
	)
}

func newTestGate(t *testing.T) (*Gate, *token.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	users := user.NewService(sqlxDB, zap.NewNop().Sugar())
	tokens, err := token.NewService(token.Config{Secret: "test-secret", TTL: time.Minute})
	require.NoError(t, err)
	return NewGate(tokens, users), tokens, mock
}

func TestResolveUser(t *testing.T) {
	gate, tokens, mock := newTestGate(t)

	raw, err := tokens.Issue("a@b.com", "clerk", 7)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(userRow("clerk", true))

	u, err := gate.ResolveUser(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, entity.RoleClerk, u.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserDeletedAfterIssuance(t *testing.T) {
	gate, tokens, mock := newTestGate(t)

	raw, err := tokens.Issue("a@b.com", "clerk", 7)
	require.NoError(t, err)

	// token still verifies, but its subject is gone
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err = gate.ResolveUser(context.Background(), raw)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUserTokenErrorsPropagate(t *testing.T) {
	gate, tokens, _ := newTestGate(t)

	_, err := gate.ResolveUser(context.Background(), "garbage")
	assert.ErrorIs(t, err, token.ErrInvalid)

	raw, err := tokens.IssueWithTTL("a@b.com", "clerk", 7, -time.Minute)
	require.NoError(t, err)
	_, err = gate.ResolveUser(context.Background(), raw)
	assert.ErrorIs(t, err, token.ErrExpired)
}

func TestRequireActive(t *testing.T) {
	assert.NoError(t, RequireActive(&entity.User{Active: true}))
	assert.ErrorIs(t, RequireActive(&entity.User{Active: false}), ErrAccountInactive)
}

func TestRequireRole(t *testing.T) {
	doctor := &entity.User{Role: entity.RoleDoctor}

	assert.ErrorIs(t, RequireRole(doctor, entity.RoleAdmin), ErrForbidden)
	assert.NoError(t, RequireRole(doctor, entity.RoleDoctor, entity.RoleAdmin))
	// empty allowlist admits any role
	assert.NoError(t, RequireRole(doctor))
}

func TestAuthorizeShortCircuits(t *testing.T) {
	gate, tokens, mock := newTestGate(t)

	// inactive account fails before the role check
	raw, err := tokens.Issue("a@b.com", "admin", 7)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(userRow("admin", false))

	_, err = gate.Authorize(context.Background(), raw, entity.RoleAdmin)
	assert.ErrorIs(t, err, ErrAccountInactive)

	// active but wrong role
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(userRow("doctor", true))
	raw, err = tokens.Issue("a@b.com", "doctor", 7)
	require.NoError(t, err)

	_, err = gate.Authorize(context.Background(), raw, entity.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}
