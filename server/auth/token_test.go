package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateAccessToken("alice", 7, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	userID, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, int32(7), userID)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("alice", 7, time.Now().Add(time.Hour), []byte("secret-a"))
	require.NoError(t, err)

	_, err = ParseAccessToken(token, []byte("secret-b"))
	require.Error(t, err)
}

func TestAccessTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateAccessToken("alice", 7, time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, secret)
	require.Error(t, err)
}

func TestAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken("not-a-token", []byte("test-secret"))
	require.Error(t, err)
}
