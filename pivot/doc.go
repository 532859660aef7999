// Package pivot implements the pivot-selection strategies that pick the
// reference objects driving metric-space partitioning.
//
// A Chooser owns an insertion-ordered list of selected pivots and a set of
// registered sample providers it pulls candidates from. Pivots accumulate:
// requesting a position beyond the current list lazily triggers selection of
// the missing suffix, never recomputing already-selected pivots. All access
// to a chooser is serialized behind one lock per instance; selection may run
// arbitrarily long and concurrent callers block until it completes.
//
// Strategies:
//
//   - Random: uniform sample without replacement
//   - OnTheFlyRandom: single pivot maintained by reservoir admission
//   - Incremental / IncrementalIDistance: probe-pair separation estimator
//   - KMeans: Lloyd iterations with clustroid refinement
//   - Outlier: greedy mutually-distant accumulation
//   - Cluster: radius-bounded agglomerative clustering
//   - Stream: pivots consumed from a pre-ordered external stream
package pivot
