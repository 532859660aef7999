package pivot

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/hupe1980/metrigo/core"
)

// Compile-time check to ensure Cluster satisfies the Chooser interface.
var _ Chooser = (*Cluster)(nil)

// ClusterOptions contains configuration options for the cluster chooser.
type ClusterOptions struct {
	// MaxRadius bounds the covering radius of a merged cluster. Required
	// and must be positive: it is what drives the pivot count.
	MaxRadius float32

	// SampleCap limits the number of objects clustered.
	SampleCap int

	// Seed fixes the random source for reproducible sampling.
	// If 0, a time-based seed is used.
	Seed int64

	// Logger receives selection diagnostics. If nil, logging is disabled.
	Logger *slog.Logger
}

// DefaultClusterOptions contains the default configuration options for the
// cluster chooser.
var DefaultClusterOptions = ClusterOptions{
	SampleCap: 100,
}

// Cluster selects pivots by hierarchical agglomerative clustering on a
// fixed-size sample: the two clusters whose merged covering radius is
// smallest are merged repeatedly, stopping once the smallest available
// merge would exceed MaxRadius. The clustroids of the final clusters become
// the pivots.
//
// The pivot count is variable: selection deliberately ignores the requested
// count and yields one pivot per surviving cluster.
type Cluster struct {
	*base
	opts ClusterOptions
	rng  *rand.Rand
}

// NewCluster creates a radius-bounded agglomerative cluster pivot chooser.
func NewCluster(optFns ...func(o *ClusterOptions)) (*Cluster, error) {
	opts := DefaultClusterOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxRadius <= 0 {
		return nil, fmt.Errorf("pivot: cluster chooser requires a positive max radius, got %v", opts.MaxRadius)
	}
	if opts.SampleCap <= 0 {
		opts.SampleCap = DefaultClusterOptions.SampleCap
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	c := &Cluster{
		base: newBase(opts.Logger),
		opts: opts,
		rng:  rand.New(rand.NewSource(seed)),
	}
	c.sel = c.selectPivots
	return c, nil
}

func (c *Cluster) selectPivots(ctx context.Context, count int, samples iter.Seq[core.Object]) error {
	sample := c.drawSample(samples)
	if len(sample) == 0 {
		return ErrNoCandidates
	}

	// Pairwise distances are reused across every merge evaluation.
	dist := make([][]float32, len(sample))
	for i := range dist {
		dist[i] = make([]float32, len(sample))
	}
	for i := 0; i < len(sample); i++ {
		for j := i + 1; j < len(sample); j++ {
			d := sample[i].Distance(sample[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}

	clusters := make([][]int, len(sample))
	for i := range clusters {
		clusters[i] = []int{i}
	}

	for len(clusters) > 1 {
		if err := ctx.Err(); err != nil {
			return err
		}

		bestA, bestB := -1, -1
		bestRadius := float32(math.MaxFloat32)
		for a := 0; a < len(clusters); a++ {
			for b := a + 1; b < len(clusters); b++ {
				if r := coveringRadius(dist, clusters[a], clusters[b]); r < bestRadius {
					bestA, bestB, bestRadius = a, b, r
				}
			}
		}
		if bestRadius > c.opts.MaxRadius {
			break
		}

		clusters[bestA] = append(clusters[bestA], clusters[bestB]...)
		clusters[bestB] = clusters[len(clusters)-1]
		clusters = clusters[:len(clusters)-1]
	}

	for _, members := range clusters {
		c.addPivot(sample[clustroid(dist, members)])
	}
	c.logger.Debug("cluster pivots selected",
		"sample", len(sample),
		"clusters", len(clusters),
		"maxRadius", c.opts.MaxRadius,
	)
	return nil
}

// drawSample reservoir-samples up to SampleCap objects from the stream.
func (c *Cluster) drawSample(samples iter.Seq[core.Object]) []core.Object {
	sample := make([]core.Object, 0, c.opts.SampleCap)
	seen := 0
	for obj := range samples {
		if len(sample) < c.opts.SampleCap {
			sample = append(sample, obj)
		} else if j := c.rng.Intn(seen + 1); j < c.opts.SampleCap {
			sample[j] = obj
		}
		seen++
	}
	return sample
}

// coveringRadius is the radius of the merged cluster of a and b around its best
// center: the minimum over members of the maximum distance to any other
// member.
func coveringRadius(dist [][]float32, a, b []int) float32 {
	best := float32(math.MaxFloat32)
	for _, center := range a {
		best = min(best, maxDistance(dist, center, a, b))
	}
	for _, center := range b {
		best = min(best, maxDistance(dist, center, a, b))
	}
	return best
}

func maxDistance(dist [][]float32, center int, a, b []int) float32 {
	var worst float32
	for _, i := range a {
		worst = max(worst, dist[center][i])
	}
	for _, i := range b {
		worst = max(worst, dist[center][i])
	}
	return worst
}

// clustroid returns the member minimizing the sum of squared distances to
// all other members.
func clustroid(dist [][]float32, members []int) int {
	best := members[0]
	bestCost := math.MaxFloat64
	for _, c := range members {
		var cost float64
		for _, m := range members {
			d := float64(dist[c][m])
			cost += d * d
		}
		if cost < bestCost {
			best, bestCost = c, cost
		}
	}
	return best
}
