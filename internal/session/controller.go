// Package session drives one interactive conversation: local turn state,
// question submission and turn persistence.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/askdesk/askdesk/internal/client"
)

// State of the controller between submissions.
type State int

const (
	// StateIdle means no question has been submitted yet.
	StateIdle State = iota
	// StateAwaitingAnswer means a question is in flight; further
	// submissions are rejected until it resolves.
	StateAwaitingAnswer
	// StateReady means the last question has its answer.
	StateReady
)

// ErrBusy rejects a submission while the previous one is still in flight.
var ErrBusy = errors.New("a question is already awaiting its answer")

// ErrorFallback replaces the assistant turn when asking fails outright.
// Matches the server-side pipeline fallback so the transcript reads the
// same either way.
const ErrorFallback = "Sorry, something went wrong."

// Asker resolves a question to an answer.
type Asker interface {
	Ask(ctx context.Context, question, sessionID string) (string, error)
}

// TurnStore persists and loads conversation turns.
type TurnStore interface {
	AppendQuery(ctx context.Context, record *client.QueryRecord) (*client.QueryRecord, error)
	ListQueries(ctx context.Context, userID int32) ([]*client.QueryRecord, error)
	LoadSession(ctx context.Context, sessionID string) ([]*client.QueryRecord, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// Controller holds the in-memory transcript of the active conversation and
// funnels every mutation through one lock. Submitting appends the human
// turn immediately, asks, appends the assistant turn, then persists both
// turns best-effort; persistence failures never disturb the transcript.
type Controller struct {
	mu         sync.Mutex
	asker      Asker
	store      TurnStore
	userID     int32
	deviceType string

	state      State
	sessionID  string
	generation int
	turns      []*client.QueryRecord
}

// NewController creates a controller with a fresh session id.
func NewController(asker Asker, store TurnStore, userID int32, deviceType string) *Controller {
	return &Controller{
		asker:      asker,
		store:      store,
		userID:     userID,
		deviceType: deviceType,
		state:      StateIdle,
		sessionID:  uuid.New().String(),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SessionID returns the active session id.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Turns returns a copy of the transcript in order.
func (c *Controller) Turns() []*client.QueryRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	turns := make([]*client.QueryRecord, len(c.turns))
	copy(turns, c.turns)
	return turns
}

// Submit asks a question and returns the assistant turn. While a previous
// question is unresolved it returns ErrBusy without touching the
// transcript. An ask failure still yields an assistant turn carrying
// ErrorFallback, so the transcript always alternates human and assistant.
func (c *Controller) Submit(ctx context.Context, question string) (*client.QueryRecord, error) {
	if question == "" {
		return nil, errors.New("question is empty")
	}

	c.mu.Lock()
	if c.state == StateAwaitingAnswer {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	generation := c.generation
	sessionID := c.sessionID
	humanTurn := &client.QueryRecord{
		UserID:     c.userID,
		SessionID:  sessionID,
		QueryType:  "human",
		QueryText:  question,
		DeviceType: c.deviceType,
		CreatedTs:  time.Now().Unix(),
	}
	c.turns = append(c.turns, humanTurn)
	c.state = StateAwaitingAnswer
	c.mu.Unlock()

	answer, err := c.asker.Ask(ctx, question, sessionID)
	if err != nil {
		slog.Warn("ask failed", "error", err)
		answer = ErrorFallback
	}

	c.mu.Lock()
	if c.generation != generation {
		// The conversation was switched while this answer was in
		// flight; drop the result.
		c.mu.Unlock()
		return nil, nil
	}
	aiTurn := &client.QueryRecord{
		UserID:     c.userID,
		SessionID:  sessionID,
		QueryType:  "ai",
		QueryText:  answer,
		DeviceType: c.deviceType,
		CreatedTs:  time.Now().Unix(),
	}
	c.turns = append(c.turns, aiTurn)
	c.state = StateReady
	c.mu.Unlock()

	c.persist(ctx, humanTurn)
	c.persist(ctx, aiTurn)

	return aiTurn, nil
}

// persist appends one turn to the server-side log. Failures are logged and
// swallowed; the local transcript is the source of truth for this run.
func (c *Controller) persist(ctx context.Context, turn *client.QueryRecord) {
	if _, err := c.store.AppendQuery(ctx, turn); err != nil {
		slog.Warn("failed to persist turn",
			"session_id", turn.SessionID,
			"query_type", turn.QueryType,
			"error", err)
	}
}

// NewChat abandons the current conversation and starts an empty one under a
// fresh session id. Any in-flight answer is discarded when it lands.
func (c *Controller) NewChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.sessionID = uuid.New().String()
	c.turns = nil
	c.state = StateIdle
}

// Load replaces the transcript with a stored conversation. Any in-flight
// answer for the previous conversation is discarded when it lands.
func (c *Controller) Load(ctx context.Context, sessionID string) error {
	turns, err := c.store.LoadSession(ctx, sessionID)
	if err != nil {
		return errors.Wrap(err, "load session")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.sessionID = sessionID
	c.turns = turns
	if len(turns) == 0 {
		c.state = StateIdle
	} else {
		c.state = StateReady
	}
	return nil
}
