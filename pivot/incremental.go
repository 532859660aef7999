package pivot

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hupe1980/metrigo/core"
	"github.com/hupe1980/metrigo/resource"
)

// Compile-time checks to ensure both incremental choosers satisfy the
// Chooser interface.
var (
	_ Chooser = (*Incremental)(nil)
	_ Chooser = (*IncrementalIDistance)(nil)
)

// IncrementalOptions contains configuration options for the incremental
// choosers.
type IncrementalOptions struct {
	// PairCount is the number of probe pairs the separation estimate is
	// averaged over.
	PairCount int

	// CandidateCap limits how many candidates are evaluated per pivot.
	CandidateCap int

	// DriftThreshold is the fraction of the probe sample size by which the
	// population may drift before the sample is reselected. Only used by
	// the sample-driven variant.
	DriftThreshold float64

	// Seed fixes the random source for reproducible candidate draws.
	// If 0, a time-based seed is used.
	Seed int64

	// Controller throttles the distance computations of candidate
	// evaluation. If nil, no limits are enforced.
	Controller *resource.Controller

	// Logger receives selection diagnostics. If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultIncrementalOptions contains the default configuration options for
// the incremental choosers.
var DefaultIncrementalOptions = IncrementalOptions{
	PairCount:      32,
	CandidateCap:   100,
	DriftThreshold: 0.2,
}

// estimator holds the probe pairs and the rolling best-separation cache
// shared by both incremental variants.
//
// For a candidate p the quality estimate is
//
//	mu(p) = mean_i max(best[i], |d(left_i, p) - d(right_i, p)|)
//
// a proxy for how well p spreads the probe pairs apart in the transformed
// space. After a candidate is promoted, best[i] absorbs its separations so
// later pivots are rewarded only for pairs the existing pivots separate
// poorly.
type estimator struct {
	left  []core.Object
	right []core.Object
	best  []float32
}

// rebuild draws pairCount disjoint probe pairs from pool and clears the
// best-separation cache.
func (e *estimator) rebuild(pool []core.Object, pairCount int, rng *rand.Rand) error {
	need := 2 * pairCount
	if len(pool) < need {
		// Shrink to what the population supports; below one pair there is
		// nothing to estimate against.
		pairCount = len(pool) / 2
		if pairCount == 0 {
			return fmt.Errorf("%w: need at least 2 objects for probe pairs", ErrNoCandidates)
		}
		need = 2 * pairCount
	}
	perm := rng.Perm(len(pool))[:need]
	e.left = make([]core.Object, pairCount)
	e.right = make([]core.Object, pairCount)
	e.best = make([]float32, pairCount)
	for i := 0; i < pairCount; i++ {
		e.left[i] = pool[perm[2*i]]
		e.right[i] = pool[perm[2*i+1]]
	}
	return nil
}

func (e *estimator) ready() bool { return len(e.left) > 0 }

// separations returns |d(left_i, p) - d(right_i, p)| for every probe pair.
func (e *estimator) separations(p core.Object) []float32 {
	seps := make([]float32, len(e.left))
	for i := range e.left {
		d := e.left[i].Distance(p) - e.right[i].Distance(p)
		if d < 0 {
			d = -d
		}
		seps[i] = d
	}
	return seps
}

// score folds the candidate separations into the mu estimate.
func (e *estimator) score(seps []float32) float64 {
	var sum float64
	for i, s := range seps {
		sum += float64(max(e.best[i], s))
	}
	return sum / float64(len(seps))
}

// absorb merges the winning candidate's separations into the rolling cache.
func (e *estimator) absorb(seps []float32) {
	for i, s := range seps {
		e.best[i] = max(e.best[i], s)
	}
}

// selectOne evaluates the candidate pool and promotes the best candidate.
func (e *estimator) selectOne(
	ctx context.Context,
	candidates []core.Object,
	controller *resource.Controller,
) (core.Object, float64, error) {
	if len(candidates) == 0 {
		return nil, 0, ErrNoCandidates
	}
	if err := controller.WaitDistances(ctx, 2*len(e.left)*len(candidates)); err != nil {
		return nil, 0, err
	}

	var (
		best     core.Object
		bestSeps []float32
		bestMu   float64 = -1
	)
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		seps := e.separations(cand)
		if mu := e.score(seps); mu > bestMu {
			best, bestSeps, bestMu = cand, seps, mu
		}
	}
	e.absorb(bestSeps)
	return best, bestMu, nil
}

// sampleCandidates draws up to limit objects from pool without replacement.
func sampleCandidates(pool []core.Object, limit int, rng *rand.Rand) []core.Object {
	if len(pool) <= limit {
		return pool
	}
	cands := make([]core.Object, limit)
	for i, idx := range rng.Perm(len(pool))[:limit] {
		cands[i] = pool[idx]
	}
	return cands
}

// Incremental evaluates candidates drawn fresh from the registered sample
// providers on every selection, rebuilding its probe pairs from the current
// population each call.
type Incremental struct {
	*base
	opts IncrementalOptions
	rng  *rand.Rand
	est  estimator
}

// NewIncremental creates a provider-driven incremental pivot chooser.
func NewIncremental(optFns ...func(o *IncrementalOptions)) *Incremental {
	opts := incrementalOptions(optFns)
	c := &Incremental{
		base: newBase(opts.Logger),
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}
	c.sel = c.selectPivots
	return c
}

func (c *Incremental) selectPivots(ctx context.Context, count int, samples iter.Seq[core.Object]) error {
	pool := core.Collect(samples)
	if len(pool) == 0 {
		return ErrNoCandidates
	}
	if err := c.est.rebuild(pool, c.opts.PairCount, c.rng); err != nil {
		return err
	}
	for added := 0; added < count; added++ {
		cands := sampleCandidates(pool, c.opts.CandidateCap, c.rng)
		p, mu, err := c.est.selectOne(ctx, cands, c.opts.Controller)
		if err != nil {
			return err
		}
		c.addPivot(p)
		c.logger.Debug("incremental pivot selected", "position", len(c.pivots)-1, "mu", mu)
	}
	return nil
}

// IncrementalIDistance keeps a cached probe sample between selections and
// invalidates it once population drift since the last reselection exceeds
// the configured fraction of the sample size.
type IncrementalIDistance struct {
	*base
	opts  IncrementalOptions
	rng   *rand.Rand
	est   estimator
	drift int
}

// NewIncrementalIDistance creates a sample-driven incremental pivot chooser.
func NewIncrementalIDistance(optFns ...func(o *IncrementalOptions)) *IncrementalIDistance {
	opts := incrementalOptions(optFns)
	c := &IncrementalIDistance{
		base: newBase(opts.Logger),
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}
	c.sel = c.selectPivots
	return c
}

// NotifyPopulationChange records that n objects were inserted into or
// removed from the underlying population. Once accumulated drift exceeds
// DriftThreshold of the probe sample size, the cached sample is discarded
// and rebuilt on the next selection.
func (c *IncrementalIDistance) NotifyPopulationChange(n int) {
	if n < 0 {
		n = -n
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drift += n
	sampleSize := 2 * len(c.est.left)
	if sampleSize == 0 {
		return
	}
	if float64(c.drift) > c.opts.DriftThreshold*float64(sampleSize) {
		c.est = estimator{}
		c.drift = 0
		c.logger.Debug("probe sample invalidated by population drift")
	}
}

func (c *IncrementalIDistance) selectPivots(ctx context.Context, count int, samples iter.Seq[core.Object]) error {
	pool := core.Collect(samples)
	if len(pool) == 0 {
		return ErrNoCandidates
	}
	if !c.est.ready() {
		if err := c.est.rebuild(pool, c.opts.PairCount, c.rng); err != nil {
			return err
		}
		c.drift = 0
	}
	for added := 0; added < count; added++ {
		cands := sampleCandidates(pool, c.opts.CandidateCap, c.rng)
		p, mu, err := c.est.selectOne(ctx, cands, c.opts.Controller)
		if err != nil {
			return err
		}
		c.addPivot(p)
		c.logger.Debug("i-distance pivot selected", "position", len(c.pivots)-1, "mu", mu)
	}
	return nil
}

func incrementalOptions(optFns []func(o *IncrementalOptions)) IncrementalOptions {
	opts := DefaultIncrementalOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.PairCount <= 0 {
		opts.PairCount = DefaultIncrementalOptions.PairCount
	}
	if opts.CandidateCap <= 0 {
		opts.CandidateCap = DefaultIncrementalOptions.CandidateCap
	}
	if opts.DriftThreshold <= 0 {
		opts.DriftThreshold = DefaultIncrementalOptions.DriftThreshold
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return opts
}
