package core

import "iter"

// SampleProvider yields candidate objects for pivot selection.
//
// Samples must be restartable: every call ranges over the current population
// from the start. Single-pass sources should be drained into a SliceProvider
// first.
type SampleProvider interface {
	Samples() iter.Seq[Object]
}

// ProviderFunc adapts a function to the SampleProvider interface.
type ProviderFunc func() iter.Seq[Object]

// Samples returns the sequence produced by the function.
func (p ProviderFunc) Samples() iter.Seq[Object] { return p() }

// SliceProvider serves a fixed slice of objects.
type SliceProvider []Object

// Samples ranges over the slice in order.
func (p SliceProvider) Samples() iter.Seq[Object] {
	return func(yield func(Object) bool) {
		for _, obj := range p {
			if !yield(obj) {
				return
			}
		}
	}
}

// Merge concatenates the sample streams of the given providers into one
// sequence, in registration order.
func Merge(providers ...SampleProvider) iter.Seq[Object] {
	return func(yield func(Object) bool) {
		for _, p := range providers {
			for obj := range p.Samples() {
				if !yield(obj) {
					return
				}
			}
		}
	}
}

// Collect drains seq into a slice.
func Collect(seq iter.Seq[Object]) []Object {
	var objs []Object
	for obj := range seq {
		objs = append(objs, obj)
	}
	return objs
}
