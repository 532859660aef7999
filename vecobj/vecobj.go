// Package vecobj provides a reference metric object over float32 vectors.
//
// It exists so the library is usable out of the box: tests, examples and
// pivot streams need a concrete object type, and real metric distances over
// dense vectors (Euclidean, angular) are the common case. Any type with a
// proper metric distance can replace it.
package vecobj

import (
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/metrigo/codec"
	"github.com/hupe1980/metrigo/core"
)

// Metric selects the distance function of a Vector.
type Metric int

const (
	// MetricL2 is the Euclidean distance.
	MetricL2 Metric = iota

	// MetricAngular is the angle between the vectors, acos of the cosine
	// similarity. Unlike raw cosine distance it satisfies the triangle
	// inequality.
	MetricAngular
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "l2"
	case MetricAngular:
		return "angular"
	default:
		return fmt.Sprintf("metric(%d)", int(m))
	}
}

// ParseMetric resolves a metric by its stable name.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "l2":
		return MetricL2, nil
	case "angular":
		return MetricAngular, nil
	default:
		return 0, fmt.Errorf("vecobj: unknown metric %q", s)
	}
}

// Compile-time check to ensure Vector satisfies the Filtered interface.
var _ core.Filtered = (*Vector)(nil)

// Vector is a dense float32 vector living in a metric space.
type Vector struct {
	core.FilterBase
	key    string
	elems  []float32
	metric Metric
}

// New creates a vector object. The element slice is not copied.
func New(elems []float32, metric Metric) *Vector {
	return &Vector{elems: elems, metric: metric}
}

// NewKeyed creates a vector object carrying a stable external key.
func NewKeyed(key string, elems []float32, metric Metric) *Vector {
	return &Vector{key: key, elems: elems, metric: metric}
}

// Key returns the external identifier, which may be empty.
func (v *Vector) Key() string { return v.key }

// Elems returns the underlying elements.
func (v *Vector) Elems() []float32 { return v.elems }

// Metric returns the configured distance metric.
func (v *Vector) Metric() Metric { return v.metric }

// Distance returns the metric distance to other.
// It panics when other is not a *Vector of the same dimension: mixing object
// types within one metric space is a programming error.
func (v *Vector) Distance(other core.Object) float32 {
	o, ok := other.(*Vector)
	if !ok {
		panic(fmt.Sprintf("vecobj: distance to incompatible object %T", other))
	}
	if len(v.elems) != len(o.elems) {
		panic(fmt.Sprintf("vecobj: dimension mismatch: %d vs %d", len(v.elems), len(o.elems)))
	}
	switch v.metric {
	case MetricAngular:
		return angular(v.elems, o.elems)
	default:
		return l2(v.elems, o.elems)
	}
}

func l2(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}

func angular(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		if na == nb {
			return 0
		}
		return float32(math.Pi / 2)
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// Clamp against floating point drift before acos.
	cos = math.Min(1, math.Max(-1, cos))
	return float32(math.Acos(cos))
}

// record is the JSON shape of a vector in a pivot stream.
type record struct {
	Key    string    `json:"key,omitempty"`
	Elems  []float32 `json:"elems"`
	Metric string    `json:"metric"`
}

// Encode turns the vector into a pivot stream record value.
func (v *Vector) Encode() any {
	return record{Key: v.key, Elems: slices.Clone(v.elems), Metric: v.metric.String()}
}

// Decode is a pivot stream object decoder for vector records.
func Decode(c codec.Codec, data []byte) (core.Object, error) {
	var rec record
	if err := c.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("vecobj: decoding record: %w", err)
	}
	m, err := ParseMetric(rec.Metric)
	if err != nil {
		return nil, err
	}
	return NewKeyed(rec.Key, rec.Elems, m), nil
}
