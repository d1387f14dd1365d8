package auth

import (
	"testing"
	"time"

	"github.com/agentcommand/tracker/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierRoundTrip(t *testing.T) {
	v := NewTokenVerifier(JWTConfig{SecretKey: "s3cret", TokenIssuer: "agentcommand"})

	token, err := v.IssueToken("agent-1", "agent@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", claims.Subject)
	assert.Equal(t, "agent@example.com", claims.Email)
}

func TestVerifierRejects(t *testing.T) {
	v := NewTokenVerifier(JWTConfig{SecretKey: "s3cret", TokenIssuer: "agentcommand"})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }

	token, err := v.IssueToken("agent-1", "", time.Minute)
	require.NoError(t, err)

	_, err = v.Verify("")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = v.Verify("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	wrongSecret := NewTokenVerifier(JWTConfig{SecretKey: "other", TokenIssuer: "agentcommand"})
	wrongSecret.now = v.now
	_, err = wrongSecret.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	wrongIssuer := NewTokenVerifier(JWTConfig{SecretKey: "s3cret", TokenIssuer: "someone-else"})
	wrongIssuer.now = v.now
	_, err = wrongIssuer.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	v.now = func() time.Time { return now.Add(time.Hour) }
	_, err = v.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, header := range []string{"", "abc.def", "Bearer ", "Basic abc"} {
		_, err := ExtractBearerToken(header)
		assert.ErrorIs(t, err, ErrInvalidFormat, header)
	}
}
