package goroutine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestManager_Go(t *testing.T) {
	m := NewManager(4)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "cid-1"))
	cancel()

	seen := make(chan string, 1)
	ok := m.Go(ctx, "publish", func(ctx context.Context) error {
		require.NoError(t, ctx.Err())
		seen <- ctx.Value(ctxKey{}).(string)
		return nil
	})
	require.True(t, ok)

	require.NoError(t, m.Wait())
	assert.Equal(t, "cid-1", <-seen)
}

func TestManager_ErrorsAndPanics(t *testing.T) {
	m := NewManager(4)
	boom := errors.New("boom")

	m.Go(context.Background(), "fails", func(context.Context) error { return boom })
	m.Go(context.Background(), "panics", func(context.Context) error { panic("kaboom") })

	err := m.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "fails: boom")
}

func TestManager_ClosedAndSaturated(t *testing.T) {
	m := NewManager(1)

	release := make(chan struct{})
	require.True(t, m.Go(context.Background(), "blocker", func(context.Context) error {
		<-release
		return nil
	}))
	assert.False(t, m.Go(context.Background(), "overflow", func(context.Context) error { return nil }))

	close(release)
	require.NoError(t, m.Wait())
	assert.False(t, m.Go(context.Background(), "late", func(context.Context) error { return nil }))

	var nilManager *Manager
	assert.False(t, nilManager.Go(context.Background(), "nil", nil))
	assert.NoError(t, nilManager.Wait())
}
