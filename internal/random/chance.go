// Package random provides the seeded random source used by the entity
// generators.
//
// # Determinism
//
// A Chance built with New(seed) produces the same sequence of picks for the
// same sequence of calls. Generators never read a global source, so a request
// that carries a seed can be replayed exactly.
//
// # Concurrency
//
// A Chance is not safe for concurrent use. Create one per request.
package random

import (
	"fmt"
	"math/rand"
)

// Chance wraps a seeded *rand.Rand with the selection helpers the
// generators need.
type Chance struct {
	rng *rand.Rand
}

// New returns a Chance seeded with seed.
func New(seed int64) *Chance {
	return NewFromSource(rand.NewSource(seed))
}

// NewFromSource returns a Chance reading from src.
func NewFromSource(src rand.Source) *Chance {
	return &Chance{rng: rand.New(src)}
}

// Integer returns a value in [min, max]. When max < min the bounds are
// swapped.
func (c *Chance) Integer(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + c.rng.Intn(max-min+1)
}

// Bool returns true with the given likelihood, expressed as a percentage.
func (c *Chance) Bool(likelihood int) bool {
	if likelihood <= 0 {
		return false
	}
	if likelihood >= 100 {
		return true
	}
	return c.rng.Intn(100) < likelihood
}

// Shuffle returns a shuffled copy of items.
func Shuffle[T any](c *Chance, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	c.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// PickOne returns a uniformly chosen element of items.
// It panics when items is empty.
func PickOne[T any](c *Chance, items []T) T {
	if len(items) == 0 {
		panic("random: PickOne called with no items")
	}
	return items[c.rng.Intn(len(items))]
}

// Weighted returns an element of items chosen with probability proportional
// to its weight. Items with a weight of zero or less are never chosen.
//
// It panics when the slices differ in length or no weight is positive; both
// are programming errors in a static table.
func Weighted[T any](c *Chance, items []T, weights []int) T {
	if len(items) != len(weights) {
		panic(fmt.Sprintf("random: Weighted got %d items and %d weights", len(items), len(weights)))
	}

	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		panic("random: Weighted called without a positive weight")
	}

	roll := c.rng.Intn(total)
	current := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		current += w
		if roll < current {
			return items[i]
		}
	}

	// unreachable: roll < total
	return items[len(items)-1]
}
