// Package admission bounds the number of expensive operations (bulk
// graph recomputation, large imports) running at once. It is the defense
// against resource exhaustion under bursty concurrent callers.
package admission

import (
	"context"
	"time"

	"github.com/josephgoksu/TaskGraph/types"
	"golang.org/x/sync/semaphore"
)

// DefaultCapacity is the number of expensive operations admitted
// concurrently when no capacity is configured.
const DefaultCapacity = 2

// Gate is a counting admission gate. Callers beyond the capacity wait in
// FIFO order (the semaphore hands out slots in arrival order) up to the
// configured timeout, then fail with OVERLOADED rather than queuing
// unboundedly.
type Gate struct {
	sem         *semaphore.Weighted
	waitTimeout time.Duration
}

// New creates a gate admitting up to capacity concurrent operations.
func New(capacity int, waitTimeout time.Duration) *Gate {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if waitTimeout <= 0 {
		waitTimeout = 10 * time.Second
	}
	return &Gate{
		sem:         semaphore.NewWeighted(int64(capacity)),
		waitTimeout: waitTimeout,
	}
}

// Acquire claims a slot, waiting up to the gate's timeout. The returned
// release func must be called exactly once when the operation finishes.
func (g *Gate) Acquire(ctx context.Context) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, g.waitTimeout)
	defer cancel()

	if err := g.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, types.NewEngineError(types.CodeOverloaded,
			"too many expensive operations in flight; retry with backoff",
			map[string]interface{}{"waitTimeout": g.waitTimeout.String()})
	}
	return func() { g.sem.Release(1) }, nil
}

// Do runs fn under an admission slot.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	release, err := g.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}
