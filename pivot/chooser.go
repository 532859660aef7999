package pivot

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/hupe1980/metrigo/core"
)

var (
	// ErrNoCandidates is returned when a selection strategy finds no valid
	// candidate object to promote to a pivot.
	ErrNoCandidates = errors.New("pivot: no candidate objects available")

	// ErrInvalidPosition is returned for negative pivot positions.
	ErrInvalidPosition = errors.New("pivot: invalid pivot position")

	// ErrSinglePivotOnly is returned by choosers that maintain exactly one
	// pivot when more are requested.
	ErrSinglePivotOnly = errors.New("pivot: chooser maintains a single pivot")
)

// Chooser selects and caches pivot objects from registered sample providers.
//
// Implementations serialize all access behind one lock per instance.
// Selection performs many distance computations and may run long; there is
// no partial-result or cancellation support beyond ctx.
type Chooser interface {
	// Pivot returns the pivot at position, triggering selection of the
	// missing suffix when the position is not yet filled.
	Pivot(ctx context.Context, position int) (core.Object, error)

	// Next selects and returns one more pivot.
	Next(ctx context.Context) (core.Object, error)

	// Last returns the most recently selected pivot without selecting.
	Last() (core.Object, bool)

	// Len returns the number of selected pivots.
	Len() int

	// RemoveLast discards the most recently selected pivot.
	RemoveLast()

	// Clear discards all selected pivots.
	Clear()

	// RegisterSampleProvider adds a source of candidate objects.
	RegisterSampleProvider(p core.SampleProvider)
}

// selectFunc is the strategy extension point: it must append at least count
// new pivots via addPivot, drawing candidates from samples. It is called
// with the chooser lock held.
type selectFunc func(ctx context.Context, count int, samples iter.Seq[core.Object]) error

// base carries the bookkeeping shared by every strategy: the
// insertion-ordered pivot list, the registered sample providers, and the
// single lock serializing all of it.
type base struct {
	mu        sync.Mutex
	pivots    []core.Object
	providers []core.SampleProvider
	logger    *slog.Logger
	sel       selectFunc
}

func newBase(logger *slog.Logger) *base {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &base{logger: logger}
}

// RegisterSampleProvider adds a source of candidate objects.
func (b *base) RegisterSampleProvider(p core.SampleProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.providers = append(b.providers, p)
}

// Pivot returns the pivot at position, selecting the missing suffix first.
func (b *base) Pivot(ctx context.Context, position int) (core.Object, error) {
	if position < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if missing := position + 1 - len(b.pivots); missing > 0 {
		if err := b.sel(ctx, missing, b.samples()); err != nil {
			return nil, err
		}
	}
	if position >= len(b.pivots) {
		return nil, fmt.Errorf("%w: position %d not filled", ErrNoCandidates, position)
	}
	return b.pivots[position], nil
}

// Next selects and returns one more pivot.
func (b *base) Next(ctx context.Context) (core.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	want := len(b.pivots) + 1
	if err := b.sel(ctx, 1, b.samples()); err != nil {
		return nil, err
	}
	if len(b.pivots) < want {
		return nil, ErrNoCandidates
	}
	return b.pivots[len(b.pivots)-1], nil
}

// Last returns the most recently selected pivot without selecting.
func (b *base) Last() (core.Object, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pivots) == 0 {
		return nil, false
	}
	return b.pivots[len(b.pivots)-1], true
}

// Len returns the number of selected pivots.
func (b *base) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pivots)
}

// RemoveLast discards the most recently selected pivot.
func (b *base) RemoveLast() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pivots) > 0 {
		b.pivots = b.pivots[:len(b.pivots)-1]
	}
}

// Clear discards all selected pivots.
func (b *base) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pivots = b.pivots[:0]
}

// addPivot appends a selected pivot. Caller holds the lock.
func (b *base) addPivot(obj core.Object) {
	b.pivots = append(b.pivots, obj)
}

// samples returns the merged candidate stream of all registered providers.
// Caller holds the lock.
func (b *base) samples() iter.Seq[core.Object] {
	return core.Merge(b.providers...)
}
