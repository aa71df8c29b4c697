package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(Config{Secret: "test-secret", TTL: time.Minute})
	require.NoError(t, err)
	return svc
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := newTestService(t)

	raw, err := svc.Issue("a@b.com", "clerk", 42)
	require.NoError(t, err)

	claims, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Subject)
	assert.Equal(t, "clerk", claims.Role)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestVerifyExpired(t *testing.T) {
	svc := newTestService(t)

	raw, err := svc.IssueWithTTL("a@b.com", "clerk", 42, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyTampered(t *testing.T) {
	svc := newTestService(t)

	raw, err := svc.Issue("a@b.com", "clerk", 42)
	require.NoError(t, err)

	// flip one byte anywhere in the token; verification must fail with
	// ErrInvalid, never silently succeed
	for _, i := range []int{0, len(raw) / 2, len(raw) - 1} {
		b := []byte(raw)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		_, err := svc.Verify(string(b))
		assert.ErrorIs(t, err, ErrInvalid, "flipped byte at %d", i)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService(Config{Secret: "rotated-secret"})
	require.NoError(t, err)

	raw, err := svc.Issue("a@b.com", "clerk", 42)
	require.NoError(t, err)

	// secret rotation revokes all outstanding sessions
	_, err = other.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	svc := newTestService(t)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalid)
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	svc := newTestService(t)

	// structurally valid and correctly signed, but no subject claim
	claims := jwt.MapClaims{
		"role":    "clerk",
		"user_id": 42,
		"exp":     time.Now().Add(time.Minute).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestGeneratedSecret(t *testing.T) {
	// no secret configured: one is generated per process, so two services
	// do not trust each other's tokens
	a, err := NewService(Config{})
	require.NoError(t, err)
	b, err := NewService(Config{})
	require.NoError(t, err)

	assert.Equal(t, DefaultTTL, a.TTL())

	raw, err := a.Issue("a@b.com", "admin", 1)
	require.NoError(t, err)

	_, err = a.Verify(raw)
	assert.NoError(t, err)
	_, err = b.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}
