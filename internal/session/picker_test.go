package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdesk/askdesk/internal/client"
)

func TestPickConversations(t *testing.T) {
	records := []*client.QueryRecord{
		{SessionID: "s1", QueryType: "human", QueryText: "how do refunds work?", CreatedTs: 100},
		{SessionID: "s1", QueryType: "ai", QueryText: "within 30 days"},
		{SessionID: "s2", QueryType: "human", QueryText: "shipping to Norway?", CreatedTs: 200},
		{SessionID: "s1", QueryType: "human", QueryText: "and for sale items?"},
		{SessionID: "s2", QueryType: "ai", QueryText: "yes, 5-7 days"},
	}

	labels := PickConversations(records)
	require.Len(t, labels, 2)
	assert.Equal(t, "s1", labels[0].SessionID)
	assert.Equal(t, "how do refunds work?", labels[0].Title)
	assert.Equal(t, int64(100), labels[0].CreatedTs)
	assert.Equal(t, "s2", labels[1].SessionID)
	assert.Equal(t, "shipping to Norway?", labels[1].Title)
}

func TestPickConversationsAIFirst(t *testing.T) {
	// A session whose oldest surviving turn is an assistant turn starts
	// labeled with that turn, then picks up the first human turn.
	records := []*client.QueryRecord{
		{SessionID: "s1", QueryType: "ai", QueryText: "welcome back"},
		{SessionID: "s1", QueryType: "human", QueryText: "real question"},
	}

	labels := PickConversations(records)
	require.Len(t, labels, 1)
	assert.Equal(t, "real question", labels[0].Title)
}

func TestPickConversationsEmpty(t *testing.T) {
	assert.Empty(t, PickConversations(nil))
}

func TestPickerList(t *testing.T) {
	ts := &fakeTurnStore{log: []*client.QueryRecord{
		{SessionID: "s1", QueryType: "human", QueryText: "first"},
		{SessionID: "s1", QueryType: "ai", QueryText: "answer"},
	}}
	p := NewPicker(ts, 1)

	labels, err := p.List(context.Background())
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "first", labels[0].Title)
}

func TestPickerDelete(t *testing.T) {
	ts := &fakeTurnStore{sessions: map[string][]*client.QueryRecord{
		"s1": {{SessionID: "s1", QueryType: "human", QueryText: "bye"}},
	}}
	p := NewPicker(ts, 1)

	require.NoError(t, p.Delete(context.Background(), "s1"))
	turns, err := ts.LoadSession(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}
