// Package precomp implements the precomputed-distance filter: a per-object
// cache of exact distances to a canonical, ordered pivot set.
//
// The filter enables triangle-inequality shortcuts that let partitioning
// policies classify an object without computing an exact distance:
//
//   - ExcludeWithin proves two objects are farther apart than a radius
//     (lower bound: |d(a,p) - d(b,p)| <= d(a,b)).
//   - IncludeWithin proves two objects are within a radius
//     (upper bound: d(a,b) <= d(a,p) + d(b,p)).
//
// Both tests are one-sided: a false result means "inconclusive", never
// "fails the condition". Callers must fall back to an exact distance
// computation when both tests are inconclusive.
//
// Positional entries are only comparable between filters bound to the same
// pivot-ordering epoch. The Schema type carries that epoch; mixing filters
// from different epochs fails fast instead of silently reading stale data.
package precomp
