package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdesk/askdesk/store"
)

func createTestUser(ctx context.Context, t *testing.T, ts *store.Store, email string) *store.User {
	t.Helper()
	user, err := ts.CreateUser(ctx, &store.User{
		Name:         "user",
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return user
}

func TestQueryStoreOrdering(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	defer ts.Close()

	user := createTestUser(ctx, t, ts, "order@example.com")

	// All rows share one timestamp; id must break the tie so the
	// transcript comes back in submission order.
	texts := []string{"first", "second", "third", "fourth"}
	for i, text := range texts {
		queryType := store.QueryTypeHuman
		if i%2 == 1 {
			queryType = store.QueryTypeAI
		}
		_, err := ts.CreateQuery(ctx, &store.Query{
			UserID:    user.ID,
			SessionID: "s1",
			Type:      queryType,
			Text:      text,
			CreatedTs: 1000,
		})
		require.NoError(t, err)
	}

	queries, err := ts.ListQueries(ctx, &store.FindQuery{UserID: &user.ID})
	require.NoError(t, err)
	require.Len(t, queries, 4)
	for i, text := range texts {
		assert.Equal(t, text, queries[i].Text)
	}
}

func TestQueryStoreSessionFilterAndDelete(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	defer ts.Close()

	user := createTestUser(ctx, t, ts, "sessions@example.com")

	for _, sessionID := range []string{"s1", "s1", "s2"} {
		_, err := ts.CreateQuery(ctx, &store.Query{
			UserID:    user.ID,
			SessionID: sessionID,
			Type:      store.QueryTypeHuman,
			Text:      "q",
		})
		require.NoError(t, err)
	}

	sessionID := "s1"
	queries, err := ts.ListQueries(ctx, &store.FindQuery{SessionID: &sessionID})
	require.NoError(t, err)
	assert.Len(t, queries, 2)

	require.NoError(t, ts.DeleteQueries(ctx, &store.DeleteQuery{SessionID: &sessionID}))

	queries, err = ts.ListQueries(ctx, &store.FindQuery{SessionID: &sessionID})
	require.NoError(t, err)
	assert.Empty(t, queries)

	// The other session is untouched.
	queries, err = ts.ListQueries(ctx, &store.FindQuery{UserID: &user.ID})
	require.NoError(t, err)
	assert.Len(t, queries, 1)
}

func TestQueryStoreTypeFilter(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	defer ts.Close()

	user := createTestUser(ctx, t, ts, "types@example.com")

	for _, queryType := range []store.QueryType{store.QueryTypeHuman, store.QueryTypeAI, store.QueryTypeHuman} {
		_, err := ts.CreateQuery(ctx, &store.Query{
			UserID:    user.ID,
			SessionID: "s1",
			Type:      queryType,
			Text:      "q",
		})
		require.NoError(t, err)
	}

	humanType := store.QueryTypeHuman
	queries, err := ts.ListQueries(ctx, &store.FindQuery{UserID: &user.ID, Type: &humanType})
	require.NoError(t, err)
	assert.Len(t, queries, 2)
}
