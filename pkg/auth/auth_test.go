package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordNeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)

	assert.NotContains(t, hash, "password123")
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)

	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
	assert.False(t, CheckPassword("not-a-hash", "password123"))
}

func TestServiceTokenRoundTrip(t *testing.T) {
	token, err := GenerateServiceToken("fulfillment", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateServiceToken(token)
	require.NoError(t, err)
	assert.Equal(t, "fulfillment", claims.Service)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestExpiredServiceTokenIsRejected(t *testing.T) {
	token, err := GenerateServiceToken("fulfillment", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateServiceToken(token)
	assert.Error(t, err)
}

func TestTamperedServiceTokenIsRejected(t *testing.T) {
	token, err := GenerateServiceToken("fulfillment", time.Hour)
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)

	_, err = ValidateServiceToken(strings.Join(parts, "."))
	assert.Error(t, err)

	_, err = ValidateServiceToken("definitely.not.a-token")
	assert.Error(t, err)
}
