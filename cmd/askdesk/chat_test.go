package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdesk/askdesk/internal/client"
)

type authServer struct {
	meCalls     atomic.Int64
	signInCalls atomic.Int64
	validToken  string
}

func (s *authServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/me", func(w http.ResponseWriter, r *http.Request) {
		s.meCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+s.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(&client.User{ID: 1, Name: "ada"})
	})
	mux.HandleFunc("/api/v1/auth/signin", func(w http.ResponseWriter, _ *http.Request) {
		s.signInCalls.Add(1)
		json.NewEncoder(w).Encode(&client.AuthResponse{
			User:        &client.User{ID: 1, Name: "ada"},
			AccessToken: s.validToken,
		})
	})
	return mux
}

func TestEnsureSignedInWithoutCredentialSkipsMe(t *testing.T) {
	backend := &authServer{validToken: "fresh-token"}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	creds, err := client.NewCredentialStore(t.TempDir())
	require.NoError(t, err)

	in := bufio.NewScanner(strings.NewReader("ada@example.com\npw\n"))
	user, err := ensureSignedIn(context.Background(), client.New(srv.URL), creds, in, io.Discard, false)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Name)

	// No stored credential means straight to sign-in.
	assert.EqualValues(t, 0, backend.meCalls.Load())
	assert.EqualValues(t, 1, backend.signInCalls.Load())

	token, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestEnsureSignedInReusesValidCredential(t *testing.T) {
	backend := &authServer{validToken: "saved-token"}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	creds, err := client.NewCredentialStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, creds.Save("saved-token"))

	in := bufio.NewScanner(strings.NewReader(""))
	user, err := ensureSignedIn(context.Background(), client.New(srv.URL), creds, in, io.Discard, false)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Name)

	assert.EqualValues(t, 1, backend.meCalls.Load())
	assert.EqualValues(t, 0, backend.signInCalls.Load())
}

func TestEnsureSignedInClearsStaleCredential(t *testing.T) {
	backend := &authServer{validToken: "new-token"}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	creds, err := client.NewCredentialStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, creds.Save("stale-token"))

	in := bufio.NewScanner(strings.NewReader("ada@example.com\npw\n"))
	user, err := ensureSignedIn(context.Background(), client.New(srv.URL), creds, in, io.Discard, false)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Name)

	// Stale token was tried once, rejected, cleared, then replaced.
	assert.EqualValues(t, 1, backend.meCalls.Load())
	assert.EqualValues(t, 1, backend.signInCalls.Load())

	token, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
}
