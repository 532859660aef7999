package pivot

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hupe1980/metrigo/core"
)

// Compile-time check to ensure Outlier satisfies the Chooser interface.
var _ Chooser = (*Outlier)(nil)

// OutlierOptions contains configuration options for the outlier chooser.
type OutlierOptions struct {
	// Seed fixes the random source used for the initial seed object.
	// If 0, a time-based seed is used.
	Seed int64

	// Logger receives selection diagnostics. If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultOutlierOptions contains the default configuration options for the
// outlier chooser.
var DefaultOutlierOptions = OutlierOptions{}

// Outlier selects pivots as mutually distant objects. The first pivot is the
// object farthest from a random seed object; every subsequent pivot is the
// remaining candidate with the maximum sum of distances to all previously
// selected pivots. A selected pivot leaves the candidate pool immediately.
type Outlier struct {
	*base
	rng *rand.Rand
}

// NewOutlier creates an outlier pivot chooser.
func NewOutlier(optFns ...func(o *OutlierOptions)) *Outlier {
	opts := DefaultOutlierOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c := &Outlier{
		base: newBase(opts.Logger),
		rng:  rand.New(rand.NewSource(seed)),
	}
	c.sel = c.selectPivots
	return c
}

func (c *Outlier) selectPivots(ctx context.Context, count int, samples iter.Seq[core.Object]) error {
	pool := core.Collect(samples)
	if len(pool) == 0 {
		return ErrNoCandidates
	}

	for added := 0; added < count; added++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(pool) == 0 {
			return fmt.Errorf("%w: candidate pool exhausted after %d of %d pivots", ErrNoCandidates, added, count)
		}

		var bestIdx int
		var bestScore float32 = -1
		if len(c.pivots) == 0 {
			// Bootstrap: farthest object from an arbitrary random seed.
			seedObj := pool[c.rng.Intn(len(pool))]
			for i, cand := range pool {
				if d := seedObj.Distance(cand); d > bestScore {
					bestIdx, bestScore = i, d
				}
			}
		} else {
			for i, cand := range pool {
				var sum float32
				for _, p := range c.pivots {
					sum += p.Distance(cand)
				}
				if sum > bestScore {
					bestIdx, bestScore = i, sum
				}
			}
		}

		c.addPivot(pool[bestIdx])
		pool[bestIdx] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	c.logger.Debug("selected outlier pivots", "count", count, "pool", len(pool))
	return nil
}
