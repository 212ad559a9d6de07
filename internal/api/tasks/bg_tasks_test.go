package tasks

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	bgTasks := New(slog.Default(), 3, 10)
	bgTasks.Run()
	var done atomic.Int32
	for n := 0; n < 5; n++ {
		require.NoError(t, bgTasks.Add(func() { done.Add(1) }))
	}
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.Equal(t, int32(5), done.Load())
	assert.True(t, bgTasks.IsEmpty())
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 2)
	bgTasks.Run()
	var done atomic.Bool
	require.NoError(t, bgTasks.Add(func() { panic("boom") }))
	require.NoError(t, bgTasks.Add(func() { done.Store(true) }))
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.True(t, done.Load())
}

func TestAddAfterShutdown(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 1)
	bgTasks.Run()
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.ErrorIs(t, bgTasks.Add(func() {}), ErrShutdown)
	assert.NoError(t, bgTasks.Shutdown(context.Background()))
}

func TestShutdownTimeout(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 1)
	bgTasks.Run()
	release := make(chan struct{})
	defer close(release)
	require.NoError(t, bgTasks.Add(func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bgTasks.Shutdown(ctx), context.DeadlineExceeded)
}
