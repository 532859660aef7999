// Package metrigo is a metric-space similarity-search foundation: the
// bucket-splitting core that decides how a set of metric objects is divided
// into smaller, distance-bounded groups.
//
// Objects are opaque: only a pairwise distance function is assumed, no
// coordinates. The library provides:
//
//   - Partitioning policies (package partition): ball, excluded-middle ball,
//     generalized hyperplane, multi-way ball and Voronoi-like partitioning,
//     each classifying single objects or whole bounding regions.
//   - Pivot choosers (package pivot): random, on-the-fly reservoir,
//     incremental probe-pair, k-means, outlier, agglomerative-cluster and
//     stream-fed strategies that select the reference objects the policies
//     partition around.
//   - Precomputed-distance filters (package precomp): per-object distance
//     caches enabling triangle-inequality shortcuts that avoid exact
//     distance computations.
//
// # Splitting a bucket
//
// A typical split obtains pivots from a chooser, configures a policy with
// them and matches every bucket object:
//
//	chooser := pivot.NewOutlier()
//	chooser.RegisterSampleProvider(core.SliceProvider(objects))
//
//	p, err := chooser.Pivot(ctx, 0)
//	if err != nil {
//	    return err
//	}
//	policy, err := partition.NewBall(partition.BallConfig{Pivot: p, Radius: 10})
//	if err != nil {
//	    return err
//	}
//	outcome, err := metrigo.Split(ctx, policy, core.SliceProvider(objects))
//
// The outcome groups object ordinals per partition as roaring bitmaps.
// Index structures, storage and distribution are deliberately out of scope:
// they consume partitioning decisions, they do not make them.
package metrigo
