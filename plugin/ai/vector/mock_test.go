package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSearchServiceRanksByOverlap(t *testing.T) {
	m := NewMockSearchService()
	m.Add(Document{UID: "a", Content: "shipping rates for international orders"})
	m.Add(Document{UID: "b", Content: "refund policy and return window"})
	m.Add(Document{UID: "c", Content: "refund shipping costs for returns"})

	docs, err := m.Search(context.Background(), "refund return window", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[0].UID)
}

func TestMockSearchServiceLimit(t *testing.T) {
	m := NewMockSearchService()
	m.Add(Document{UID: "a", Content: "alpha"})
	m.Add(Document{UID: "b", Content: "alpha beta"})

	docs, err := m.Search(context.Background(), "alpha", 1)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
