package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestContinuationTokenRoundTrip(t *testing.T) {
	token, err := GenerateContinuationToken("registration-secret", "pending-1", time.Minute)
	require.NoError(t, err)

	claims, err := ParseContinuationToken(token, "registration-secret")
	require.NoError(t, err)
	require.Equal(t, "pending-1", claims.PendingID)
}

func TestContinuationTokenWrongSecret(t *testing.T) {
	token, err := GenerateContinuationToken("registration-secret", "pending-1", time.Minute)
	require.NoError(t, err)

	_, err = ParseContinuationToken(token, "other-secret")
	require.Error(t, err)
}

func TestContinuationTokenExpired(t *testing.T) {
	token, err := GenerateContinuationToken("registration-secret", "pending-1", -time.Minute)
	require.NoError(t, err)

	_, err = ParseContinuationToken(token, "registration-secret")
	require.Error(t, err)
}

func TestSessionTokenHash(t *testing.T) {
	token, hash, err := GenerateSessionToken(32)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, hash, HashSessionToken(token))

	other, _, err := GenerateSessionToken(32)
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}

func TestCSRFToken(t *testing.T) {
	token := CSRFToken("csrf-secret", "browser-1")
	require.Equal(t, token, CSRFToken("csrf-secret", "browser-1"))
	require.True(t, VerifyCSRFToken("csrf-secret", "browser-1", token))
	require.False(t, VerifyCSRFToken("csrf-secret", "browser-2", token))
	require.False(t, VerifyCSRFToken("other-secret", "browser-1", token))
	require.False(t, VerifyCSRFToken("csrf-secret", "browser-1", ""))
	require.False(t, VerifyCSRFToken("csrf-secret", "", token))
}
