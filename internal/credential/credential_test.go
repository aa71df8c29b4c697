package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyCurrent(t *testing.T) {
	hash, scheme, err := Hash("pw123")
	require.NoError(t, err)
	assert.Equal(t, SchemeCurrent, scheme)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.True(t, VerifyCurrent("pw123", hash))
	assert.False(t, VerifyCurrent("pw124", hash))
	assert.False(t, VerifyCurrent("", hash))
}

func TestHashIsSalted(t *testing.T) {
	h1, _, err := Hash("same-password")
	require.NoError(t, err)
	h2, _, err := Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyLegacy(t *testing.T) {
	stored := LegacyDigest("pw123")
	assert.Len(t, stored, 64)

	assert.True(t, VerifyLegacy("pw123", stored))
	assert.False(t, VerifyLegacy("pw124", stored))

	// identical plaintexts produce identical digests: the weakness that
	// motivated the migration
	assert.Equal(t, stored, LegacyDigest("pw123"))
}

func TestVerifyDispatch(t *testing.T) {
	legacy := LegacyDigest("pw123")
	current, _, err := Hash("pw123")
	require.NoError(t, err)

	tests := []struct {
		name       string
		plaintext  string
		stored     string
		wantOK     bool
		wantScheme Scheme
	}{
		{"legacy match", "pw123", legacy, true, SchemeLegacy},
		{"legacy mismatch", "wrong", legacy, false, ""},
		{"current match", "pw123", current, true, SchemeCurrent},
		{"current mismatch", "wrong", current, false, ""},
		{"empty stored", "pw123", "", false, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, scheme := Verify(tc.plaintext, tc.stored)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantScheme, scheme)
		})
	}
}

func TestFormatsAreDisjoint(t *testing.T) {
	// a bcrypt hash must never be mistaken for a legacy digest, or the
	// trial dispatch would be ambiguous
	current, _, err := Hash("pw123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(current, "$2"))
	assert.False(t, strings.HasPrefix(LegacyDigest("pw123"), "$2"))

	ok, scheme := Verify("pw123", current)
	assert.True(t, ok)
	assert.Equal(t, SchemeCurrent, scheme)
}
