package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	users := NewUsers()

	created, err := users.EnsureUser(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = users.EnsureUser(ctx, "admin", "other")
	require.NoError(t, err)
	assert.False(t, created)

	ok, err := users.ValidateUser(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.ValidateUser(ctx, "admin", "other")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = users.ValidateUser(ctx, "nobody", "secret")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, users.CreateUser(ctx, "admin", "again"))
}
