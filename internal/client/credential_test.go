package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStoreRoundTrip(t *testing.T) {
	s, err := NewCredentialStore(t.TempDir())
	require.NoError(t, err)

	// Absent token reads as signed out, not an error.
	token, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.Save("token-abc"))
	token, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "token-abc", token)

	require.NoError(t, s.Clear())
	token, err = s.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
}
