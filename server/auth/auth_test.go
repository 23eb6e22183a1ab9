package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	expires := time.Now().Add(time.Hour)

	token, err := GenerateAccessToken(42, "ada", expires, secret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "ada", claims.Name)
	assert.Equal(t, Issuer, claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "ada", time.Now().Add(time.Hour), []byte("right"))
	require.NoError(t, err)

	_, err = ParseAccessToken(token, []byte("wrong"))
	require.Error(t, err)
}

func TestAccessTokenExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateAccessToken(42, "ada", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, secret)
	require.Error(t, err)
}

func TestAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken("not-a-jwt", []byte("secret"))
	require.Error(t, err)
}
