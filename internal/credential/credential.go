// Package credential hashes and verifies passwords across the two schemes
// that coexist during the hash migration: the legacy unsalted SHA-256 digest
// kept only so pre-migration accounts can still log in, and bcrypt for
// everything new or rehashed.
package credential

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Scheme tags how a stored hash was produced. It is persisted next to the
// hash so dispatch is a column read, not a trial.
type Scheme string

const (
	SchemeLegacy  Scheme = "sha256"
	SchemeCurrent Scheme = "bcrypt"
)

// Cost is the bcrypt work factor for all new hashes.
const Cost = 12

// Hash derives a bcrypt hash for plaintext. Failure here means the random
// source is broken and is not recoverable.
func Hash(plaintext string) (string, Scheme, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", "", err
	}
	return string(h), SchemeCurrent, nil
}

// LegacyDigest computes the unsalted hex digest of the retired scheme.
// Exported for seed tooling and tests; never use it for new credentials.
func LegacyDigest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// VerifyLegacy compares plaintext against a legacy digest in constant time.
func VerifyLegacy(plaintext, stored string) bool {
	d := LegacyDigest(plaintext)
	return subtle.ConstantTimeCompare([]byte(d), []byte(stored)) == 1
}

// VerifyCurrent compares plaintext against a bcrypt hash.
func VerifyCurrent(plaintext, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
}

// Verify checks plaintext against a stored hash of either scheme and reports
// which scheme matched so the caller can migrate legacy credentials. The
// legacy digest is tried first. The two formats are disjoint (bcrypt hashes
// carry a "$2" prefix, legacy digests are 64 hex chars), so a match can
// never be ambiguous.
func Verify(plaintext, stored string) (bool, Scheme) {
	if !strings.HasPrefix(stored, "$2") && VerifyLegacy(plaintext, stored) {
		return true, SchemeLegacy
	}
	if VerifyCurrent(plaintext, stored) {
		return true, SchemeCurrent
	}
	return false, ""
}
