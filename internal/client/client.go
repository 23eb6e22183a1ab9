// Package client talks to the askdesk JSON API on behalf of a terminal
// session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// ErrUnauthenticated is returned when the server rejects the access token.
var ErrUnauthenticated = errors.New("unauthenticated")

// User mirrors the API user object.
type User struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedTs int64  `json:"createdTs"`
}

// QueryRecord mirrors one persisted conversation turn.
type QueryRecord struct {
	ID             int32  `json:"id,omitempty"`
	UID            string `json:"uid,omitempty"`
	UserID         int32  `json:"userId,omitempty"`
	SessionID      string `json:"sessionId"`
	QueryType      string `json:"queryType"`
	QueryText      string `json:"queryText"`
	DeviceType     string `json:"deviceType,omitempty"`
	Location       string `json:"location,omitempty"`
	IntentDetected bool   `json:"intentDetected,omitempty"`
	CreatedTs      int64  `json:"createdTs,omitempty"`
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}

type chatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"sessionId"`
}

type chatResponse struct {
	Answer    string `json:"answer"`
	RequestID string `json:"requestId"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is a thin HTTP wrapper over the v1 API. It is safe for sequential
// use; callers that share one across goroutines must not change the token
// concurrently.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Client against baseURL, e.g. "http://localhost:8081".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		// Long enough for an answer pipeline round trip.
		httpClient: &http.Client{Timeout: 3 * time.Minute},
	}
}

// SetToken installs the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token, empty when signed out.
func (c *Client) Token() string {
	return c.token
}

// SignUp registers a new account and installs its token.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/users/", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.AccessToken
	return &resp, nil
}

// SignIn authenticates an existing account and installs its token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	c.token = resp.AccessToken
	return &resp, nil
}

// Me returns the authenticated user, or ErrUnauthenticated when the token
// is missing or stale.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AppendQuery persists one conversation turn.
func (c *Client) AppendQuery(ctx context.Context, record *QueryRecord) (*QueryRecord, error) {
	var created QueryRecord
	if err := c.do(ctx, http.MethodPost, "/api/v1/queries/", record, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListQueries returns the full query log of a user, oldest first.
func (c *Client) ListQueries(ctx context.Context, userID int32) ([]*QueryRecord, error) {
	var records []*QueryRecord
	path := fmt.Sprintf("/api/v1/queries/%d", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadSession returns the turns of one conversation, oldest first.
func (c *Client) LoadSession(ctx context.Context, sessionID string) ([]*QueryRecord, error) {
	var records []*QueryRecord
	path := "/api/v1/conversations/" + sessionID
	if err := c.do(ctx, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteSession removes every turn of one conversation.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/conversations/"+sessionID, nil, nil)
}

// Ask runs a question through the server-side answer pipeline.
func (c *Client) Ask(ctx context.Context, question, sessionID string) (string, error) {
	var resp chatResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/chat", &chatRequest{
		Question:  question,
		SessionID: sessionID,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return errors.Errorf("%s: %s", apiErr.Code, apiErr.Message)
		}
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
