// Package resource bounds the background work done by pivot-selection
// pipelines: how many selection jobs may run concurrently and how fast they
// may burn exact distance computations.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxSelectionWorkers is the maximum number of concurrent background
	// selection jobs. If 0, defaults to 1.
	MaxSelectionWorkers int64

	// DistancesPerSec throttles the exact distance computations performed by
	// background work (sample reselection, clustering iterations).
	// If 0, unlimited.
	DistancesPerSec int
}

// Controller manages selection concurrency and distance-computation budget.
// A nil Controller is valid and enforces no limits.
type Controller struct {
	cfg Config

	// Concurrency
	workerSem *semaphore.Weighted

	// Distance budget
	distLimiter *rate.Limiter
	distCount   atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxSelectionWorkers <= 0 {
		cfg.MaxSelectionWorkers = 1
	}

	c := &Controller{
		cfg:       cfg,
		workerSem: semaphore.NewWeighted(cfg.MaxSelectionWorkers),
	}

	if cfg.DistancesPerSec > 0 {
		c.distLimiter = rate.NewLimiter(rate.Limit(cfg.DistancesPerSec), cfg.DistancesPerSec)
	}

	return c
}

// AcquireWorker reserves a background selection slot, blocking while all
// slots are busy or until ctx is canceled.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workerSem.Acquire(ctx, 1)
}

// TryAcquireWorker reserves a background selection slot without blocking.
func (c *Controller) TryAcquireWorker() bool {
	if c == nil {
		return true
	}
	return c.workerSem.TryAcquire(1)
}

// ReleaseWorker releases a background selection slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workerSem.Release(1)
}

// WaitDistances waits until the distance budget allows n more exact distance
// computations.
func (c *Controller) WaitDistances(ctx context.Context, n int) error {
	if c == nil || n <= 0 {
		return nil
	}
	c.distCount.Add(int64(n))
	if c.distLimiter == nil {
		return nil
	}
	// WaitN rejects n beyond the burst size; charge oversized batches in
	// chunks instead.
	for n > 0 {
		chunk := min(n, c.distLimiter.Burst())
		if err := c.distLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// DistanceCount returns the number of distance computations charged so far.
func (c *Controller) DistanceCount() int64 {
	if c == nil {
		return 0
	}
	return c.distCount.Load()
}
