// Package weighted implements random selection where each option's
// probability is proportional to a declared weight.
package weighted

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
)

var (
	ErrEmpty         = errors.New("weighted: no options")
	ErrInvalidWeight = errors.New("weighted: invalid weight")
)

// Option is a single labeled candidate with a relative weight.
type Option[T any] struct {
	Value  T
	Weight float64
}

// Table is an immutable set of options prepared for repeated sampling.
// Weights are relative and need not sum to 1.
type Table[T any] struct {
	options    []Option[T]
	cumulative []float64
	total      float64
}

// New builds a Table from the given options. Zero weights are allowed
// (the option is never picked) but at least one weight must be positive.
func New[T any](opts ...Option[T]) (*Table[T], error) {
	if len(opts) == 0 {
		return nil, ErrEmpty
	}

	t := &Table[T]{
		options:    make([]Option[T], len(opts)),
		cumulative: make([]float64, len(opts)),
	}
	copy(t.options, opts)

	for i, o := range t.options {
		if o.Weight < 0 || math.IsNaN(o.Weight) || math.IsInf(o.Weight, 0) {
			return nil, fmt.Errorf("%w: option %d has weight %v", ErrInvalidWeight, i, o.Weight)
		}
		t.total += o.Weight
		t.cumulative[i] = t.total
	}

	if t.total <= 0 {
		return nil, fmt.Errorf("%w: all weights are zero", ErrInvalidWeight)
	}

	return t, nil
}

// MustNew is like New but panics on error. Intended for static tables.
func MustNew[T any](opts ...Option[T]) *Table[T] {
	t, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromMap builds a Table from an option->weight mapping. Keys are sorted so
// that a seeded source yields the same sequence on every run.
func FromMap[K cmp.Ordered](m map[K]float64) (*Table[K], error) {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	opts := make([]Option[K], 0, len(keys))
	for _, k := range keys {
		opts = append(opts, Option[K]{Value: k, Weight: m[k]})
	}
	return New(opts...)
}

// Pick returns one option value drawn from r.
func (t *Table[T]) Pick(r *rand.Rand) T {
	x := r.Float64() * t.total
	idx := sort.Search(len(t.cumulative), func(i int) bool {
		return t.cumulative[i] > x
	})
	if idx >= len(t.options) {
		// Float rounding at the upper edge; fall back to the last weighted option.
		idx = len(t.options) - 1
		for idx > 0 && t.options[idx].Weight == 0 {
			idx--
		}
	}
	return t.options[idx].Value
}

// Len returns the number of options, including zero-weight ones.
func (t *Table[T]) Len() int {
	return len(t.options)
}

// Values returns the option values in declaration order.
func (t *Table[T]) Values() []T {
	out := make([]T, len(t.options))
	for i, o := range t.options {
		out[i] = o.Value
	}
	return out
}
