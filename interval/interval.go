// Package interval provides generic ordered-key interval arithmetic.
//
// The boundary convention matches the one the partitioning policies use for
// distance bands: boundaries are closed on the inner/left side and open on
// the outer/right side, so every key maps to exactly one interval of a
// covering sequence.
package interval

import "cmp"

// Interval is a half-open interval [Low, High): closed on the left, open on
// the right.
type Interval[K cmp.Ordered] struct {
	Low  K
	High K
}

// New creates the interval [low, high).
func New[K cmp.Ordered](low, high K) Interval[K] {
	return Interval[K]{Low: low, High: high}
}

// Empty reports whether the interval contains no keys.
func (iv Interval[K]) Empty() bool {
	return iv.High <= iv.Low
}

// Contains reports whether k falls inside the interval.
func (iv Interval[K]) Contains(k K) bool {
	return iv.Low <= k && k < iv.High
}

// Overlaps reports whether the two intervals share at least one key.
func (iv Interval[K]) Overlaps(o Interval[K]) bool {
	if iv.Empty() || o.Empty() {
		return false
	}
	return iv.Low < o.High && o.Low < iv.High
}

// Intersect returns the common part of the two intervals. The second result
// is false when they do not overlap.
func (iv Interval[K]) Intersect(o Interval[K]) (Interval[K], bool) {
	if !iv.Overlaps(o) {
		var zero Interval[K]
		return zero, false
	}
	return Interval[K]{Low: max(iv.Low, o.Low), High: min(iv.High, o.High)}, true
}

// Span returns the smallest interval covering both intervals. Empty inputs
// are ignored; spanning two empty intervals yields an empty interval.
func (iv Interval[K]) Span(o Interval[K]) Interval[K] {
	if iv.Empty() {
		return o
	}
	if o.Empty() {
		return iv
	}
	return Interval[K]{Low: min(iv.Low, o.Low), High: max(iv.High, o.High)}
}

// Clamp limits k to the closed range [low, high].
func Clamp[K cmp.Ordered](k, low, high K) K {
	if k < low {
		return low
	}
	if k > high {
		return high
	}
	return k
}
