package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test_secret")

	token, err := GenerateToken(42, "alice", "cat.png", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "cat.png", claims.Avatar)
}

func TestParseTokenGarbage(t *testing.T) {
	InitJWT("test_secret")

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	InitJWT("test_secret")

	token, err := GenerateToken(42, "alice", "", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	InitJWT("secret_a")
	token, err := GenerateToken(42, "alice", "", time.Hour)
	require.NoError(t, err)

	InitJWT("secret_b")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenZeroUserID(t *testing.T) {
	InitJWT("test_secret")

	token, err := GenerateToken(0, "nobody", "", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
