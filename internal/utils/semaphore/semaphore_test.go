package semaphore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/loyalty-ledger/internal/serviceerrs"
)

func TestSemaphore_AcquireWithTimeout(t *testing.T) {
	sema := New(1)
	ctx := context.Background()

	require.NoError(t, sema.AcquireWithTimeout(ctx, 10*time.Millisecond))
	err := sema.AcquireWithTimeout(ctx, 10*time.Millisecond)
	require.ErrorIs(t, err, serviceerrs.ErrSemaphoreTimeoutExceeded)

	sema.Release()
	require.NoError(t, sema.AcquireWithTimeout(ctx, 10*time.Millisecond))
}

func TestSemaphore_AcquireWithTimeout_canceled(t *testing.T) {
	sema := New(1)
	require.NoError(t, sema.AcquireWithTimeout(context.Background(), time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := sema.AcquireWithTimeout(ctx, time.Second)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, serviceerrs.ErrSemaphoreTimeoutExceeded)
}

func TestSemaphore_waiterWakesOnRelease(t *testing.T) {
	sema := New(1)
	require.NoError(t, sema.AcquireWithTimeout(context.Background(), time.Second))

	done := make(chan error)
	go func() {
		done <- sema.AcquireWithTimeout(context.Background(), time.Second)
	}()
	time.Sleep(10 * time.Millisecond)
	sema.Release()
	require.NoError(t, <-done)
}
