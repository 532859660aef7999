package interval

import "cmp"

// Bands maps points to band indices given a strictly ascending boundary
// sequence. The boundaries split the key domain into len(bands)+1 bands:
// band i covers (bounds[i-1], bounds[i]], so a point exactly on a boundary
// belongs to the inner band. Points beyond the last boundary map to
// len(bands).
type Bands[K cmp.Ordered] []K

// Locate returns the band index of v.
func (b Bands[K]) Locate(v K) int {
	for i, bound := range b {
		if v <= bound {
			return i
		}
	}
	return len(b)
}
