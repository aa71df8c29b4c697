package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medekit/clinic-core/internal/credential"
	"github.com/medekit/clinic-core/internal/token"
	"github.com/medekit/clinic-core/internal/user"
	"github.com/medekit/clinic-core/internal/user/entity"
)

func newTestHandler(t *testing.T) (*Handler, *Gate, *token.Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	users := user.NewService(sqlxDB, zap.NewNop().Sugar())
	tokens, err := token.NewService(token.Config{Secret: "test-secret", TTL: time.Minute})
	require.NoError(t, err)
	gate := NewGate(tokens, users)
	return NewHandler(gate, users, zap.NewNop().Sugar()), gate, tokens, mock
}

func clerkRow(hash string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userCols).AddRow(
		int64(7), "a@b.com", "A B", "clerk", true,
		hash, "bcrypt", now, now,
	)
}

func TestLoginIssuesBearerToken(t *testing.T) {
	h, _, tokens, mock := newTestHandler(t)

	hash, _, err := credential.Hash("pw123")
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("a@b.com").
		WillReturnRows(clerkRow(hash))

	req := httptest.NewRequest(http.MethodPost, "/clinic-api/login",
		strings.NewReader(`{"email":"a@b.com","password":"pw123"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "a@b.com", resp.User.Email)
	assert.Equal(t, entity.RoleClerk, resp.User.Role)

	claims, err := tokens.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Subject)
	assert.Equal(t, "clerk", claims.Role)
	assert.Equal(t, int64(7), claims.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginBadPassword(t *testing.T) {
	h, _, _, mock := newTestHandler(t)

	hash, _, err := credential.Hash("pw123")
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("a@b.com").
		WillReturnRows(clerkRow(hash))

	req := httptest.NewRequest(http.MethodPost, "/clinic-api/login",
		strings.NewReader(`{"email":"a@b.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestLoginThenMeAndRoleGate(t *testing.T) {
	h, gate, _, mock := newTestHandler(t)
	logger := zap.NewNop().Sugar()

	hash, _, err := credential.Hash("pw123")
	require.NoError(t, err)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("a@b.com").
		WillReturnRows(clerkRow(hash))

	req := httptest.NewRequest(http.MethodPost, "/clinic-api/login",
		strings.NewReader(`{"email":"a@b.com","password":"pw123"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// the token resolves back to the same identity
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(clerkRow(hash))

	me := gate.Require(logger)(http.HandlerFunc(h.Me))
	meReq := httptest.NewRequest(http.MethodGet, "/clinic-api/users/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	meRec := httptest.NewRecorder()
	me.ServeHTTP(meRec, meReq)

	require.Equal(t, http.StatusOK, meRec.Code)
	var profile entity.Profile
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &profile))
	assert.Equal(t, "a@b.com", profile.Email)
	assert.Equal(t, entity.RoleClerk, profile.Role)

	// a clerk allowlist accepts the clerk
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(clerkRow(hash))
	okGate := gate.Require(logger, entity.RoleClerk)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	okReq := httptest.NewRequest(http.MethodGet, "/clinic-api/patients", nil)
	okReq.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	okRec := httptest.NewRecorder()
	okGate.ServeHTTP(okRec, okReq)
	assert.Equal(t, http.StatusNoContent, okRec.Code)

	// an admin-only allowlist rejects the clerk with 403
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(clerkRow(hash))
	adminGate := gate.Require(logger, entity.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	adminReq := httptest.NewRequest(http.MethodGet, "/clinic-api/users", nil)
	adminReq.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	adminRec := httptest.NewRecorder()
	adminGate.ServeHTTP(adminRec, adminReq)
	assert.Equal(t, http.StatusForbidden, adminRec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMiddlewareStatuses(t *testing.T) {
	_, gate, tokens, mock := newTestHandler(t)
	logger := zap.NewNop().Sugar()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	protected := gate.Require(logger)(next)

	// missing header
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// malformed token
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")

	// expired token is reported distinctly so clients can re-prompt login
	expired, err := tokens.IssueWithTTL("a@b.com", "clerk", 7, -time.Minute)
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")

	// inactive account
	raw, err := tokens.Issue("a@b.com", "clerk", 7)
	require.NoError(t, err)
	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			int64(7), "a@b.com", "A B", "clerk", false,
			"$2a$12$unused", "bcrypt", now, now,
		))
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "account inactive")

	assert.NoError(t, mock.ExpectationsWereMet())
}
