package admission

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/josephgoksu/TaskGraph/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateAdmitsUpToCapacity(t *testing.T) {
	g := New(2, 100*time.Millisecond)
	ctx := context.Background()

	release1, err := g.Acquire(ctx)
	require.NoError(t, err)
	release2, err := g.Acquire(ctx)
	require.NoError(t, err)

	// Third caller waits out the timeout and is turned away.
	_, err = g.Acquire(ctx)
	require.ErrorIs(t, err, types.ErrOverloaded)
	assert.True(t, types.IsRetryable(err))

	// Releasing a slot admits the next caller.
	release1()
	release3, err := g.Acquire(ctx)
	require.NoError(t, err)

	release2()
	release3()
}

func TestDoReleasesSlotAfterFn(t *testing.T) {
	g := New(1, 100*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := g.Do(ctx, func(ctx context.Context) error { return nil })
		require.NoError(t, err, "iteration %d", i)
	}
}

func TestDoReleasesSlotOnError(t *testing.T) {
	g := New(1, 100*time.Millisecond)
	ctx := context.Background()

	boom := assert.AnError
	require.ErrorIs(t, g.Do(ctx, func(ctx context.Context) error { return boom }), boom)

	// The failed operation's slot is back.
	release, err := g.Acquire(ctx)
	require.NoError(t, err)
	release()
}

func TestAcquireHonorsCallerCancellation(t *testing.T) {
	g := New(1, 5*time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	release, err := g.Acquire(ctx)
	require.NoError(t, err)
	defer release()

	cancel()
	_, err = g.Acquire(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGateUnderConcurrentLoad(t *testing.T) {
	g := New(2, 5*time.Second)
	ctx := context.Background()

	var mu sync.Mutex
	inFlight, peak := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := g.Do(ctx, func(ctx context.Context) error {
				mu.Lock()
				inFlight++
				if inFlight > peak {
					peak = inFlight
				}
				mu.Unlock()

				time.Sleep(10 * time.Millisecond)

				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak, 2, "gate must never admit more than its capacity")
}

func TestZeroCapacityFallsBackToDefault(t *testing.T) {
	g := New(0, time.Second)
	ctx := context.Background()

	release1, err := g.Acquire(ctx)
	require.NoError(t, err)
	release2, err := g.Acquire(ctx)
	require.NoError(t, err)
	release1()
	release2()
}
