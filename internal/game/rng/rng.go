// Package rng provides the randomness sources injected into game instances.
// Every instance draws only from the Source it was constructed with, so
// outcomes are reproducible under a fixed seed.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Source is the randomness a game instance may use.
type Source interface {
	IntN(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// New returns a PCG source seeded from the operating system.
func New() Source {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(buf[:8]),
		binary.LittleEndian.Uint64(buf[8:]),
	))
}

// NewSeeded returns a reproducible source.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, 0))
}

// Uniform draws a float in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Weighted picks an index with probability proportional to weights[i].
// Weights are relative frequencies and are normalized before sampling.
// It returns -1 when no weight is positive.
func Weighted(src Source, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}

	r := src.Float64()
	acc := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += float64(w) / float64(total)
		last = i
		if r < acc {
			return i
		}
	}
	// Float rounding can leave r just above the final cumulative sum.
	return last
}
