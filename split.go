package metrigo

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/metrigo/core"
	"github.com/hupe1980/metrigo/partition"
)

// Outcome is the result of splitting one bucket of objects with a policy.
type Outcome struct {
	// Partitions holds, per partition index, the bitmap of object ordinals
	// assigned to that partition. Ordinals are positions in the provider's
	// sample stream.
	Partitions []*roaring.Bitmap
}

// Cardinality returns the number of objects assigned to partition i.
func (o *Outcome) Cardinality(i int) uint64 {
	return o.Partitions[i].GetCardinality()
}

// Objects returns the total number of objects across all partitions.
func (o *Outcome) Objects() uint64 {
	var n uint64
	for _, bm := range o.Partitions {
		n += bm.GetCardinality()
	}
	return n
}

// SplitOptions contains configuration options for Split.
type SplitOptions struct {
	// Parallelism is the number of concurrent matchers.
	// If 0, runtime.GOMAXPROCS(0) is used.
	Parallelism int

	// Logger receives split diagnostics. If nil, logging is disabled.
	Logger *Logger

	// Metrics observes completed splits. If nil, metrics are discarded.
	Metrics MetricsCollector
}

// Split matches every object served by provider against policy and groups
// the object ordinals per partition.
//
// Matching is embarrassingly parallel: each object resolves independently.
// Storage of the resulting groups is the caller's concern.
func Split(ctx context.Context, policy partition.Policy, provider core.SampleProvider, optFns ...func(o *SplitOptions)) (*Outcome, error) {
	opts := SplitOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NoopMetricsCollector{}
	}

	start := time.Now()
	objects := core.Collect(provider.Samples())
	assign := make([]int, len(objects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, obj := range objects {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			idx, err := policy.Match(obj)
			if err != nil {
				return fmt.Errorf("matching object %d: %w", i, err)
			}
			if idx < 0 || idx >= policy.PartitionCount() {
				return fmt.Errorf("policy returned partition %d outside [0, %d)", idx, policy.PartitionCount())
			}
			assign[i] = idx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		opts.Metrics.RecordSplit(len(objects), policy.PartitionCount(), time.Since(start), err)
		return nil, err
	}

	out := &Outcome{Partitions: make([]*roaring.Bitmap, policy.PartitionCount())}
	for i := range out.Partitions {
		out.Partitions[i] = roaring.New()
	}
	for i, idx := range assign {
		out.Partitions[idx].Add(uint32(i))
	}

	elapsed := time.Since(start)
	opts.Metrics.RecordSplit(len(objects), policy.PartitionCount(), elapsed, nil)
	opts.Logger.WithPartitions(policy.PartitionCount()).Debug("bucket split",
		"objects", len(objects),
		"elapsed", elapsed,
	)
	return out, nil
}

// SplitRegions classifies whole bounding regions in one pass. Regions the
// policy cannot place conclusively are returned in the ambiguous bitmap and
// must be resolved object by object (see Split).
func SplitRegions(ctx context.Context, policy partition.Policy, regions []core.BallRegion) (*Outcome, *roaring.Bitmap, error) {
	out := &Outcome{Partitions: make([]*roaring.Bitmap, policy.PartitionCount())}
	for i := range out.Partitions {
		out.Partitions[i] = roaring.New()
	}
	ambiguous := roaring.New()

	for i, region := range regions {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		idx, err := policy.MatchRegion(region)
		if err != nil {
			return nil, nil, fmt.Errorf("matching region %d: %w", i, err)
		}
		if idx == partition.Any {
			ambiguous.Add(uint32(i))
			continue
		}
		out.Partitions[idx].Add(uint32(i))
	}
	return out, ambiguous, nil
}
