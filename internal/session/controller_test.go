package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdesk/askdesk/internal/client"
)

type fakeAsker struct {
	mu      sync.Mutex
	answer  string
	err     error
	block   chan struct{} // when set, Ask waits until closed
	started chan struct{} // signalled once Ask is entered
}

func (f *fakeAsker) Ask(_ context.Context, _, _ string) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answer, f.err
}

type fakeTurnStore struct {
	mu       sync.Mutex
	appended  []*client.QueryRecord
	appendErr error
	sessions  map[string][]*client.QueryRecord
	log       []*client.QueryRecord
}

func (f *fakeTurnStore) AppendQuery(_ context.Context, record *client.QueryRecord) (*client.QueryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	f.appended = append(f.appended, record)
	return record, nil
}

func (f *fakeTurnStore) ListQueries(_ context.Context, _ int32) ([]*client.QueryRecord, error) {
	return f.log, nil
}

func (f *fakeTurnStore) LoadSession(_ context.Context, sessionID string) ([]*client.QueryRecord, error) {
	return f.sessions[sessionID], nil
}

func (f *fakeTurnStore) DeleteSession(_ context.Context, sessionID string) error {
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeTurnStore) appendedRecords() []*client.QueryRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*client.QueryRecord(nil), f.appended...)
}

func TestControllerSubmit(t *testing.T) {
	ctx := context.Background()
	asker := &fakeAsker{answer: "42"}
	ts := &fakeTurnStore{}
	c := NewController(asker, ts, 7, "terminal")

	require.Equal(t, StateIdle, c.State())

	turn, err := c.Submit(ctx, "meaning of life?")
	require.NoError(t, err)
	require.NotNil(t, turn)
	assert.Equal(t, "ai", turn.QueryType)
	assert.Equal(t, "42", turn.QueryText)
	assert.Equal(t, StateReady, c.State())

	turns := c.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "human", turns[0].QueryType)
	assert.Equal(t, "meaning of life?", turns[0].QueryText)
	assert.Equal(t, turns[0].SessionID, turns[1].SessionID)

	// Both turns were persisted, human first.
	appended := ts.appendedRecords()
	require.Len(t, appended, 2)
	assert.Equal(t, "human", appended[0].QueryType)
	assert.Equal(t, "ai", appended[1].QueryType)
	assert.Equal(t, int32(7), appended[0].UserID)
}

func TestControllerSubmitEmptyQuestion(t *testing.T) {
	c := NewController(&fakeAsker{}, &fakeTurnStore{}, 1, "terminal")
	_, err := c.Submit(context.Background(), "")
	require.Error(t, err)
	assert.Empty(t, c.Turns())
}

func TestControllerRejectsDoubleSubmit(t *testing.T) {
	ctx := context.Background()
	asker := &fakeAsker{
		answer:  "slow answer",
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	c := NewController(asker, &fakeTurnStore{}, 1, "terminal")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Submit(ctx, "first")
		assert.NoError(t, err)
	}()

	<-asker.started
	require.Equal(t, StateAwaitingAnswer, c.State())

	_, err := c.Submit(ctx, "second")
	require.ErrorIs(t, err, ErrBusy)
	// The rejected submission left no trace.
	require.Len(t, c.Turns(), 1)

	close(asker.block)
	<-done
	require.Len(t, c.Turns(), 2)
}

func TestControllerAskFailureYieldsFallbackTurn(t *testing.T) {
	asker := &fakeAsker{err: errors.New("server unreachable")}
	ts := &fakeTurnStore{}
	c := NewController(asker, ts, 1, "terminal")

	turn, err := c.Submit(context.Background(), "anyone there?")
	require.NoError(t, err)
	require.NotNil(t, turn)
	assert.Equal(t, ErrorFallback, turn.QueryText)
	assert.Equal(t, StateReady, c.State())

	// The fallback turn is persisted like any other.
	appended := ts.appendedRecords()
	require.Len(t, appended, 2)
	assert.Equal(t, ErrorFallback, appended[1].QueryText)
}

func TestControllerPersistFailureKeepsTranscript(t *testing.T) {
	asker := &fakeAsker{answer: "fine"}
	ts := &fakeTurnStore{appendErr: errors.New("store offline")}
	c := NewController(asker, ts, 1, "terminal")

	turn, err := c.Submit(context.Background(), "hello")
	require.NoError(t, err)
	require.NotNil(t, turn)
	assert.Len(t, c.Turns(), 2)
}

func TestControllerNewChat(t *testing.T) {
	c := NewController(&fakeAsker{answer: "ok"}, &fakeTurnStore{}, 1, "terminal")
	_, err := c.Submit(context.Background(), "hi")
	require.NoError(t, err)

	oldSession := c.SessionID()
	c.NewChat()

	assert.NotEqual(t, oldSession, c.SessionID())
	assert.Empty(t, c.Turns())
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerDiscardsStaleAnswer(t *testing.T) {
	ctx := context.Background()
	asker := &fakeAsker{
		answer:  "stale",
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	c := NewController(asker, &fakeTurnStore{}, 1, "terminal")

	result := make(chan *client.QueryRecord, 1)
	go func() {
		turn, err := c.Submit(ctx, "old question")
		assert.NoError(t, err)
		result <- turn
	}()

	<-asker.started
	c.NewChat()
	close(asker.block)

	select {
	case turn := <-result:
		assert.Nil(t, turn)
	case <-time.After(time.Second):
		t.Fatal("submit did not return")
	}
	// The stale answer never reached the fresh conversation.
	assert.Empty(t, c.Turns())
	assert.Equal(t, StateIdle, c.State())
}

func TestControllerLoad(t *testing.T) {
	stored := []*client.QueryRecord{
		{SessionID: "s1", QueryType: "human", QueryText: "q1"},
		{SessionID: "s1", QueryType: "ai", QueryText: "a1"},
	}
	ts := &fakeTurnStore{sessions: map[string][]*client.QueryRecord{"s1": stored}}
	c := NewController(&fakeAsker{answer: "ok"}, ts, 1, "terminal")
	_, err := c.Submit(context.Background(), "scratch")
	require.NoError(t, err)

	require.NoError(t, c.Load(context.Background(), "s1"))
	assert.Equal(t, "s1", c.SessionID())
	assert.Equal(t, StateReady, c.State())

	turns := c.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "q1", turns[0].QueryText)
}

func TestControllerLoadEmptySession(t *testing.T) {
	ts := &fakeTurnStore{sessions: map[string][]*client.QueryRecord{}}
	c := NewController(&fakeAsker{}, ts, 1, "terminal")

	require.NoError(t, c.Load(context.Background(), "missing"))
	assert.Equal(t, StateIdle, c.State())
	assert.Empty(t, c.Turns())
}
