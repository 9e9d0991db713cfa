package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thamsanqa-bit/penden-storefront/internal/store"
)

func TestSession_Lifecycle(t *testing.T) {
	ctx := context.Background()
	sess := New(store.NewMemoryStore())

	assert.False(t, sess.IsLoggedIn(ctx))
	assert.Empty(t, sess.Token(ctx))

	require.NoError(t, sess.SetCredentials(ctx, "tok-123", "thandi"))
	assert.True(t, sess.IsLoggedIn(ctx))
	assert.Equal(t, "tok-123", sess.Token(ctx))
	assert.Equal(t, "thandi", sess.Username(ctx))

	require.NoError(t, sess.Clear(ctx))
	assert.False(t, sess.IsLoggedIn(ctx))
	assert.Empty(t, sess.Token(ctx))
	assert.Empty(t, sess.Username(ctx))
}

func TestSession_RejectsEmptyToken(t *testing.T) {
	sess := New(store.NewMemoryStore())
	assert.Error(t, sess.SetCredentials(context.Background(), "", "thandi"))
}
