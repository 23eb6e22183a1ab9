package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSignUpInstallsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/users/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada", body["name"])

		json.NewEncoder(w).Encode(&AuthResponse{
			User:        &User{ID: 1, Name: "ada", Email: "ada@example.com"},
			AccessToken: "token-123",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.SignUp(context.Background(), "ada", "ada@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "token-123", c.Token())
	assert.Equal(t, int32(1), resp.User.ID)
}

func TestClientMeSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(&User{ID: 1, Name: "ada"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("token-123")
	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Name)
}

func TestClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("stale")
	_, err := c.Me(context.Background())
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestClientErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "INVALID_ARGUMENT",
			"message": "queryText is required",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.AppendQuery(context.Background(), &QueryRecord{SessionID: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_ARGUMENT")
	assert.Contains(t, err.Error(), "queryText is required")
}

func TestClientConversationRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/conversations/s1":
			json.NewEncoder(w).Encode([]*QueryRecord{
				{SessionID: "s1", QueryType: "human", QueryText: "q"},
				{SessionID: "s1", QueryType: "ai", QueryText: "a"},
			})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/conversations/s1":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	turns, err := c.LoadSession(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "human", turns[0].QueryType)

	require.NoError(t, c.DeleteSession(context.Background(), "s1"))
}

func TestClientAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/chat", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "why?", body["question"])
		assert.Equal(t, "s1", body["sessionId"])
		json.NewEncoder(w).Encode(map[string]string{"answer": "because", "requestId": "r1"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	answer, err := c.Ask(context.Background(), "why?", "s1")
	require.NoError(t, err)
	assert.Equal(t, "because", answer)
}
