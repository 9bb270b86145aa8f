package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJWTSecret(t *testing.T) {
	assert.Error(t, InitJWTSecret(""))
	assert.NoError(t, InitJWTSecret("secret"))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	require.NoError(t, InitJWTSecret("secret"))

	token, err := GenerateSessionToken("session-1", "user-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestVerifySessionToken_Rejects(t *testing.T) {
	require.NoError(t, InitJWTSecret("secret"))

	expired, err := GenerateSessionToken("session-1", "user-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	require.NoError(t, InitJWTSecret("other-secret"))
	foreign, err := GenerateSessionToken("session-1", "user-1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, InitJWTSecret("secret"))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		SessionID:        "session-1",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSession, err := GenerateSessionToken("", "user-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":         expired,
		"wrong secret":    foreign,
		"none algorithm":  unsigned,
		"missing session": noSession,
		"garbage":         "not-a-token",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := VerifySessionToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestWebhookSecret(t *testing.T) {
	secret, hash, err := NewWebhookSecret()
	require.NoError(t, err)
	assert.Len(t, secret, webhookSecretBytes*2)
	assert.NotEqual(t, secret, hash)

	assert.True(t, CheckWebhookSecret(hash, secret))
	assert.False(t, CheckWebhookSecret(hash, secret+"x"))
	assert.False(t, CheckWebhookSecret(hash, ""))
	assert.False(t, CheckWebhookSecret("", secret))

	other, _, err := NewWebhookSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}
