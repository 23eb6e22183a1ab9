package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdesk/askdesk/store"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	defer ts.Close()

	user, err := ts.CreateUser(ctx, &store.User{
		Name:         "ada",
		Email:        "ada@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.UID)
	assert.NotZero(t, user.CreatedTs)

	byEmail, err := ts.GetUser(ctx, &store.FindUser{Email: &user.Email})
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := ts.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "ada", byID.Name)

	missing := "nobody@example.com"
	none, err := ts.GetUser(ctx, &store.FindUser{Email: &missing})
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, ts.DeleteUser(ctx, &store.DeleteUser{ID: user.ID}))
	gone, err := ts.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	assert.Nil(t, gone)
}
