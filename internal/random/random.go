// Package random provides a seedable randomness source shared by the data
// generators. Every generator takes a *Source as an explicit dependency so
// that runs are reproducible from a seed.
package random

import (
	"math"
	"math/rand"
	"sync"
)

// Source wraps a seeded PRNG. It is safe for use from multiple goroutines.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Source seeded with the given value. The same seed always
// yields the same draw sequence.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Intn returns a uniform draw in [0, n).
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// IntBetween returns a uniform draw in [min, max] inclusive.
func (s *Source) IntBetween(min, max int) int {
	if max < min {
		panic("random: IntBetween called with max < min")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Intn(max-min+1)
}

// FloatBetween returns a uniform draw in [min, max).
func (s *Source) FloatBetween(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Float64()*(max-min)
}

// Pareto returns a draw from a Pareto distribution with the given shape
// parameter. Values are always >= 1; small alpha gives a heavier tail.
func (s *Source) Pareto(alpha float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := 1.0 - s.rng.Float64()
	return 1.0 / math.Pow(u, 1.0/alpha)
}

// Chance returns true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.Float64() < p
}

// Weighted pairs a candidate value with its selection weight.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// Choose draws one value from the candidates proportionally to their weights.
// Weights need not sum to 1. Panics on an empty candidate list or a
// non-positive total weight.
func Choose[T any](src *Source, candidates []Weighted[T]) T {
	if len(candidates) == 0 {
		panic("random: Choose called with no candidates")
	}
	var total float64
	for _, c := range candidates {
		total += c.Weight
	}
	if total <= 0 {
		panic("random: Choose called with non-positive total weight")
	}
	target := src.Float64() * total
	for _, c := range candidates {
		target -= c.Weight
		if target < 0 {
			return c.Value
		}
	}
	// Float round-off can leave target at exactly zero.
	return candidates[len(candidates)-1].Value
}

// Pick returns one uniformly chosen element.
func Pick[T any](src *Source, items []T) T {
	if len(items) == 0 {
		panic("random: Pick called with no items")
	}
	return items[src.Intn(len(items))]
}

// Sample returns k distinct elements drawn without replacement, in random
// order. Panics when k exceeds the number of items.
func Sample[T any](src *Source, items []T, k int) []T {
	if k > len(items) {
		panic("random: Sample size exceeds population")
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	out := make([]T, 0, k)
	for i := 0; i < k; i++ {
		j := i + src.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, items[idx[i]])
	}
	return out
}
