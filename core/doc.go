// Package core defines the metric-space object model consumed by the
// partitioning and pivot-selection packages.
//
// Objects are opaque: the only assumption is a pairwise Distance method
// satisfying the metric axioms (symmetry, non-negativity, triangle
// inequality). Identity is independent of distance; two distinct objects may
// sit at distance zero.
package core
