package pivot

import (
	"context"
	"iter"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hupe1980/metrigo/core"
)

// Compile-time check to ensure OnTheFlyRandom satisfies the Chooser
// interface.
var _ Chooser = (*OnTheFlyRandom)(nil)

// OnTheFlyRandomOptions contains configuration options for the on-the-fly
// random chooser.
type OnTheFlyRandomOptions struct {
	// Seed fixes the random source for reproducible admission.
	// If 0, a time-based seed is used.
	Seed int64

	// Logger receives selection diagnostics. If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultOnTheFlyRandomOptions contains the default configuration options
// for the on-the-fly random chooser.
var DefaultOnTheFlyRandomOptions = OnTheFlyRandomOptions{}

// OnTheFlyRandom maintains exactly one pivot, reselected incrementally as
// objects are inserted into the owning bucket.
//
// Admission follows reservoir sampling: on insertion of the n-th object
// (0-indexed) an index is drawn uniformly from [0, n]; the new object
// replaces the current pivot when the draw hits n. By induction every object
// ever inserted holds the pivot with probability 1/(n+1).
type OnTheFlyRandom struct {
	*base
	rng      *rand.Rand
	inserted int
}

// NewOnTheFlyRandom creates an on-the-fly random pivot chooser.
func NewOnTheFlyRandom(optFns ...func(o *OnTheFlyRandomOptions)) *OnTheFlyRandom {
	opts := DefaultOnTheFlyRandomOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c := &OnTheFlyRandom{
		base: newBase(opts.Logger),
		rng:  rand.New(rand.NewSource(seed)),
	}
	c.sel = c.selectPivots
	return c
}

// NotifyInserted runs the reservoir admission step for an object just
// inserted into the owning bucket. A replacement discards any previously
// selected additional pivots: this chooser maintains a single pivot.
func (c *OnTheFlyRandom) NotifyInserted(obj core.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.inserted
	c.inserted++
	if c.rng.Intn(n+1) != n {
		return
	}
	c.pivots = c.pivots[:0]
	c.pivots = append(c.pivots, obj)
	c.logger.Debug("on-the-fly pivot replaced", "inserted", c.inserted)
}

// selectPivots fills the single pivot slot from the sample stream when no
// insertion has established one yet.
func (c *OnTheFlyRandom) selectPivots(ctx context.Context, count int, samples iter.Seq[core.Object]) error {
	if len(c.pivots)+count > 1 {
		return ErrSinglePivotOnly
	}
	var pick core.Object
	seen := 0
	for obj := range samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.rng.Intn(seen+1) == 0 {
			pick = obj
		}
		seen++
	}
	if pick == nil {
		return ErrNoCandidates
	}
	c.addPivot(pick)
	return nil
}
