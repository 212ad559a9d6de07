package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"movielib/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	client, err := Connect(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client)
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, 42, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	userID, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSessionExpires(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, 1, time.Second)
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, id)
		return err != nil
	}, 3*time.Second, 100*time.Millisecond)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "redis://localhost:notaport/0")
	assert.Error(t, err)
}
