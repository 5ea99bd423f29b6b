// Package noise provides the seeded random source and noise fields used by
// every generation stage. There is no ambient randomness anywhere in the
// generator: each stage receives a Generator derived from the run seed, so a
// fixed seed replays the exact same level.
package noise

import (
	"hash/fnv"
	"math/rand"
)

// Generator is a deterministic random source for one generation stage.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// New returns a Generator seeded with the given run seed.
func New(seed int64) *Generator {
	return &Generator{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed this generator was created with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Sub derives an independent stream for a named stage. Streams are stable
// across runs, so stages that are skipped (e.g. zone placement during
// regeneration) do not shift the draws of later stages.
func (g *Generator) Sub(name string) *Generator {
	h := fnv.New64a()
	h.Write([]byte(name))
	derived := g.seed ^ int64(h.Sum64())
	return &Generator{seed: derived, rng: rand.New(rand.NewSource(derived))}
}

// IntN returns a uniform int in [0, n).
func (g *Generator) IntN(n int) int {
	return g.rng.Intn(n)
}

// IntRange returns a uniform int in [lo, hi).
func (g *Generator) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo)
}

// Float returns a uniform float64 in [0, 1).
func (g *Generator) Float() float64 {
	return g.rng.Float64()
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](g *Generator, items []T) T {
	return items[g.IntN(len(items))]
}

// Weighted pairs an item with its selection weight.
type Weighted[T any] struct {
	Item   T
	Weight int
}

// PickWeighted returns an element chosen proportionally to its weight.
// The input is a slice, not a map, so draw order is deterministic.
func PickWeighted[T any](g *Generator, items []Weighted[T]) T {
	total := 0
	for _, w := range items {
		total += w.Weight
	}
	n := g.IntN(total)
	for _, w := range items {
		n -= w.Weight
		if n < 0 {
			return w.Item
		}
	}
	return items[len(items)-1].Item
}

// Sample returns a random sublist of items without replacement. The result
// length is clamped to [lo, hi] and never exceeds len(items).
func Sample[T any](g *Generator, items []T, lo, hi int) []T {
	n := len(items)
	if lo > n {
		lo = n
	}
	if hi > n {
		hi = n
	}
	k := lo
	if hi > lo {
		k = g.IntRange(lo, hi+1)
	}
	idx := g.rng.Perm(n)[:k]
	out := make([]T, 0, k)
	for _, i := range idx {
		out = append(out, items[i])
	}
	return out
}

// Shuffle permutes items in place.
func Shuffle[T any](g *Generator, items []T) {
	g.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
