package redis

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T, wait time.Duration) (*MutationLock, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	lock := NewMutationLock(client, "ledger:mutation", 30*time.Second, wait, zerolog.New(io.Discard))
	return lock, s
}

func TestMutationLock_AcquireAndRelease(t *testing.T) {
	lock, s := newTestLock(t, time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, s.Exists("ledger:mutation"))

	release()
	assert.False(t, s.Exists("ledger:mutation"), "release should delete the lock key")
}

func TestMutationLock_ContentionTimesOut(t *testing.T) {
	lock, _ := newTestLock(t, 150*time.Millisecond)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)
	defer release()

	_, err = lock.Acquire(ctx)
	assert.Error(t, err, "second acquire should give up after the wait budget")
}

func TestMutationLock_ReleaseAllowsReacquire(t *testing.T) {
	lock, _ := newTestLock(t, time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)
	release()

	release2, err := lock.Acquire(ctx)
	require.NoError(t, err)
	release2()
}

func TestMutationLock_WaitsForHolder(t *testing.T) {
	lock, _ := newTestLock(t, 2*time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		release2, err := lock.Acquire(ctx)
		if err == nil {
			release2()
		}
		done <- err
	}()

	time.Sleep(100 * time.Millisecond)
	release()

	select {
	case err := <-done:
		assert.NoError(t, err, "waiter should acquire once the holder releases")
	case <-time.After(3 * time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestMutationLock_StaleReleaseKeepsNewHolder(t *testing.T) {
	lock, s := newTestLock(t, time.Second)
	ctx := context.Background()

	staleRelease, err := lock.Acquire(ctx)
	require.NoError(t, err)

	// TTL expires while the first holder is still running.
	s.FastForward(time.Minute)

	release2, err := lock.Acquire(ctx)
	require.NoError(t, err)
	defer release2()

	// The stale holder's release must not free the new holder's lock.
	staleRelease()
	assert.True(t, s.Exists("ledger:mutation"), "stale release must not delete the new holder's key")
}

func TestMutationLock_CancelledContext(t *testing.T) {
	lock, _ := newTestLock(t, 10*time.Second)

	release, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err = lock.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
