// Package partition implements the partitioning policies that decide how a
// set of metric objects is divided into distance-bounded groups.
//
// Five policies share one contract:
//
//   - Ball: inner/outer around a single pivot
//   - ExcludedMiddle: ball with an excluded annulus of half-width rho
//   - Hyperplane: generalized hyperplane between two pivots
//   - MultiWayBall: concentric distance bands around a single pivot
//   - Voronoi: nearest pivot out of an arbitrary pivot set
//
// Match classifies a single object and always resolves to exactly one
// partition, trying triangle-inequality shortcuts from the objects'
// precomputed-distance filters before computing an exact distance.
// MatchRegion classifies a whole bounding ball at once and may return Any
// when the region straddles a partition boundary; callers then fall back to
// per-object matching.
//
// Boundaries are closed on the inner side and open on the outer side
// throughout, so every distance maps to exactly one partition.
package partition
