package core

import "github.com/hupe1980/metrigo/precomp"

// Object is anything that lives in a metric space.
type Object interface {
	// Distance returns the exact, symmetric, non-negative metric distance to
	// other. A zero distance means the two objects occupy the same position;
	// it does not imply identity.
	Distance(other Object) float32
}

// Keyed is implemented by objects carrying a stable external identifier.
// Key management itself belongs to the surrounding system.
type Keyed interface {
	Object
	Key() string
}

// Filtered is an Object that can carry a precomputed-distance filter.
type Filtered interface {
	Object

	// DistanceFilter returns the attached filter, or nil if none.
	DistanceFilter() *precomp.Filter

	// ChainFilter attaches f. If a filter is already attached and replace is
	// false, the existing filter is kept. The attached filter is returned.
	ChainFilter(f *precomp.Filter, replace bool) *precomp.Filter
}

// FilterBase is an embeddable implementation of the filter-carrying half of
// Filtered. Each object owns its own filter instance; only the immutable
// pivot-order schema may be shared between objects.
type FilterBase struct {
	filter *precomp.Filter
}

// DistanceFilter returns the attached filter, or nil.
func (b *FilterBase) DistanceFilter() *precomp.Filter { return b.filter }

// ChainFilter attaches f, keeping any existing filter unless replace is set.
func (b *FilterBase) ChainFilter(f *precomp.Filter, replace bool) *precomp.Filter {
	if b.filter != nil && !replace {
		return b.filter
	}
	b.filter = f
	return b.filter
}

// FilterOf returns the precomputed-distance filter attached to obj, or nil
// when obj carries none.
func FilterOf(obj Object) *precomp.Filter {
	if fc, ok := obj.(Filtered); ok {
		return fc.DistanceFilter()
	}
	return nil
}
