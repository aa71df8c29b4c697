// Package token issues and verifies the signed bearer tokens that carry a
// user's identity between requests. Tokens are stateless: validity is
// decided entirely by signature and expiry, with no server-side session
// store and no refresh mechanism.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL applies when no TTL is configured.
const DefaultTTL = 30 * time.Minute

var (
	// ErrExpired is reported distinctly so clients can prompt a re-login
	// instead of treating the failure as permanent.
	ErrExpired = errors.New("token expired")
	// ErrInvalid covers everything else: bad signature, malformed token,
	// missing subject.
	ErrInvalid = errors.New("invalid token")
)

// Claims is the payload embedded in every issued token. Subject holds the
// user's email.
type Claims struct {
	Role   string `json:"role"`
	UserID int64  `json:"user_id"`
	jwt.RegisteredClaims
}

type Config struct {
	// Secret signs tokens. When empty a random secret is generated at
	// startup; every restart then invalidates all outstanding tokens.
	Secret string
	TTL    time.Duration
}

// ConfigFromEnv reads AUTH_SECRET and AUTH_TOKEN_TTL_MINUTES.
func ConfigFromEnv() Config {
	ttl := DefaultTTL
	if v := os.Getenv("AUTH_TOKEN_TTL_MINUTES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			ttl = time.Duration(parsed) * time.Minute
		}
	}
	return Config{Secret: os.Getenv("AUTH_SECRET"), TTL: ttl}
}

// Service signs and verifies tokens with a process-wide HMAC secret. The
// secret is read-only after construction and safe to share across requests.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(cfg Config) (*Service, error) {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate signing secret: %w", err)
		}
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: secret, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue mints a signed token for the given identity with the configured TTL.
func (s *Service) Issue(email, role string, userID int64) (string, error) {
	return s.IssueWithTTL(email, role, userID, s.ttl)
}

// IssueWithTTL mints a signed token with an explicit lifetime.
func (s *Service) IssueWithTTL(email, role string, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role:   role,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify decodes raw and returns its claims. Expiry is the only failure
// reported distinctly; all other problems collapse into ErrInvalid so the
// caller-facing message leaks nothing about what went wrong.
func (s *Service) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if claims.Subject == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
