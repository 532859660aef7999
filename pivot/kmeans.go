package pivot

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/metrigo/core"
	"github.com/hupe1980/metrigo/precomp"
	"github.com/hupe1980/metrigo/resource"
)

// Compile-time check to ensure KMeans satisfies the Chooser interface.
var _ Chooser = (*KMeans)(nil)

// KMeansOptions contains configuration options for the k-means chooser.
type KMeansOptions struct {
	// MaxIterations caps the number of Lloyd iterations.
	MaxIterations int

	// DistinctionThreshold is the convergence bound: iteration stops once no
	// pivot shifts by more than this distance.
	DistinctionThreshold float32

	// ClustroidSampleCap limits how many cluster members are evaluated as
	// clustroid candidates per cluster, in addition to the current pivot.
	ClustroidSampleCap int

	// Workers bounds the fork-join parallelism of the clustroid step.
	// If 0, runtime.GOMAXPROCS(0) is used.
	Workers int

	// PopulateFilters, when set, attaches a fresh precomputed-distance
	// filter holding the final object-to-pivot distances to every sampled
	// object that can carry one. Subsequent partitioning against the
	// selected pivots then gets triangle-inequality shortcuts for free.
	PopulateFilters bool

	// Seed fixes the random source for reproducible initialization.
	// If 0, a time-based seed is used.
	Seed int64

	// Controller throttles the distance computations of the clustering
	// loop. If nil, no limits are enforced.
	Controller *resource.Controller

	// Logger receives selection diagnostics. If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultKMeansOptions contains the default configuration options for the
// k-means chooser.
var DefaultKMeansOptions = KMeansOptions{
	MaxIterations:        100,
	DistinctionThreshold: 0.1,
	ClustroidSampleCap:   50,
}

// KMeans selects pivots by Lloyd's algorithm adapted for metric spaces:
// repeated nearest-pivot assignment followed by per-cluster clustroid
// refinement, where the clustroid is the member minimizing the sum of
// squared distances to all cluster members.
type KMeans struct {
	*base
	opts KMeansOptions
	rng  *rand.Rand
}

// NewKMeans creates a k-means pivot chooser.
func NewKMeans(optFns ...func(o *KMeansOptions)) *KMeans {
	opts := DefaultKMeansOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultKMeansOptions.MaxIterations
	}
	if opts.ClustroidSampleCap <= 0 {
		opts.ClustroidSampleCap = DefaultKMeansOptions.ClustroidSampleCap
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c := &KMeans{
		base: newBase(opts.Logger),
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
	}
	c.sel = c.selectPivots
	return c
}

func (c *KMeans) selectPivots(ctx context.Context, count int, samples iter.Seq[core.Object]) error {
	data := core.Collect(samples)
	if len(data) == 0 {
		return ErrNoCandidates
	}
	if len(data) < count {
		return fmt.Errorf("%w: need %d pivots, have %d objects", ErrNoCandidates, count, len(data))
	}
	k := count

	// Initialize with k distinct random objects.
	pivots := make([]core.Object, k)
	for i, idx := range c.rng.Perm(len(data))[:k] {
		pivots[i] = data[idx]
	}

	// dists[i][j] is the distance from data[i] to pivots[j], refreshed every
	// assignment step.
	dists := make([][]float32, len(data))
	for i := range dists {
		dists[i] = make([]float32, k)
	}
	assign := make([]int, len(data))

	iterations := 0
	for iterations < c.opts.MaxIterations {
		iterations++

		if err := c.opts.Controller.WaitDistances(ctx, len(data)*k); err != nil {
			return err
		}

		// Assignment step: nearest pivot, first minimum wins.
		members := make([][]int, k)
		for i, obj := range data {
			best := 0
			for j := 0; j < k; j++ {
				dists[i][j] = obj.Distance(pivots[j])
				if dists[i][j] < dists[i][best] {
					best = j
				}
			}
			assign[i] = best
			members[best] = append(members[best], i)
		}

		// An empty cluster is reseeded and forces at least one more
		// iteration regardless of pivot shift.
		forceNext := false
		for j := range members {
			if len(members[j]) == 0 {
				forceNext = true
				c.logger.Warn("empty cluster reseeded", "cluster", j, "iteration", iterations)
			}
		}

		newPivots, err := c.refineClustroids(ctx, data, pivots, members)
		if err != nil {
			return err
		}

		var shift float32
		for j := range pivots {
			if d := pivots[j].Distance(newPivots[j]); d > shift {
				shift = d
			}
		}
		pivots = newPivots

		if !forceNext && shift <= c.opts.DistinctionThreshold {
			break
		}
	}

	if c.opts.PopulateFilters {
		populateFilters(data, pivots)
	}

	for _, p := range pivots {
		c.addPivot(p)
	}
	c.logger.Debug("k-means pivots selected", "k", k, "objects", len(data), "iterations", iterations)
	return nil
}

// refineClustroids computes one clustroid per cluster. Per-cluster work is
// independent, so it forks across a bounded worker group and joins before
// the next Lloyd iteration begins.
func (c *KMeans) refineClustroids(ctx context.Context, data []core.Object, pivots []core.Object, members [][]int) ([]core.Object, error) {
	k := len(pivots)
	newPivots := make([]core.Object, k)

	// Candidate indices are drawn serially: the rng is not safe to share
	// with the workers.
	candidates := make([][]int, k)
	for j, m := range members {
		if len(m) <= c.opts.ClustroidSampleCap {
			candidates[j] = m
			continue
		}
		perm := c.rng.Perm(len(m))[:c.opts.ClustroidSampleCap]
		cands := make([]int, len(perm))
		for i, p := range perm {
			cands[i] = m[p]
		}
		candidates[j] = cands
	}

	reseed := make([]int, k)
	for j := range reseed {
		reseed[j] = c.rng.Intn(len(data))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for j := 0; j < k; j++ {
		g.Go(func() error {
			m := members[j]
			if len(m) == 0 {
				newPivots[j] = data[reseed[j]]
				return nil
			}
			if err := c.opts.Controller.WaitDistances(gctx, (len(candidates[j])+1)*len(m)); err != nil {
				return err
			}
			// The current pivot competes with the sampled members; it wins
			// ties so a converged cluster stays put.
			best := pivots[j]
			bestCost := clusterCost(best, data, m)
			for _, ci := range candidates[j] {
				if cost := clusterCost(data[ci], data, m); cost < bestCost {
					best, bestCost = data[ci], cost
				}
			}
			newPivots[j] = best
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return newPivots, nil
}

// clusterCost is the sum of squared distances from candidate to every
// cluster member.
func clusterCost(candidate core.Object, data []core.Object, members []int) float64 {
	var sum float64
	for _, i := range members {
		d := float64(candidate.Distance(data[i]))
		sum += d * d
	}
	return sum
}

// populateFilters attaches to every filter-carrying object a fresh filter
// holding its exact distances to the final pivots, all under one shared
// schema epoch.
func populateFilters(data []core.Object, pivots []core.Object) {
	schema := precomp.NewSchema(len(pivots))
	for _, obj := range data {
		fc, ok := obj.(core.Filtered)
		if !ok {
			continue
		}
		f := precomp.NewFilter(schema, len(pivots))
		for _, p := range pivots {
			if err := f.Add(obj.Distance(p)); err != nil {
				break
			}
		}
		fc.ChainFilter(f, true)
	}
}
