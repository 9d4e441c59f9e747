package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNewSeeded_Reproducible(t *testing.T) {
	a := NewSeeded(42)
	b := NewSeeded(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestWeighted(t *testing.T) {
	weights := []int{30, 0, 70}

	tests := []struct {
		name string
		r    float64
		want int
	}{
		{"first bucket", 0.0, 0},
		{"first bucket edge", 0.29, 0},
		{"skips zero weight", 0.30, 2},
		{"last bucket", 0.99, 2},
		{"rounding overflow", 0.9999999999, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &Script{Floats: []float64{tt.r}}
			assert.Equal(t, tt.want, Weighted(src, weights))
		})
	}

	assert.Equal(t, -1, Weighted(&Script{}, []int{0, 0}))
}

func TestWeightedInRangeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		weights := rapid.SliceOfN(rapid.IntRange(0, 100), 1, 10).Draw(t, "weights")
		seed := rapid.Uint64().Draw(t, "seed")

		idx := Weighted(NewSeeded(seed), weights)

		total := 0
		for _, w := range weights {
			total += w
		}
		if total == 0 {
			if idx != -1 {
				t.Fatalf("expected -1 for all-zero weights, got %d", idx)
			}
			return
		}
		if idx < 0 || idx >= len(weights) || weights[idx] == 0 {
			t.Fatalf("picked invalid index %d for weights %v", idx, weights)
		}
	})
}

func TestScript(t *testing.T) {
	s := &Script{Ints: []int{7, -1}, Floats: []float64{0.5}}
	assert.Equal(t, 1, s.IntN(6))
	assert.Equal(t, 5, s.IntN(6))
	assert.Equal(t, 0, s.IntN(6))
	assert.Equal(t, 0.5, s.Float64())
	assert.Equal(t, 0.0, s.Float64())
}
