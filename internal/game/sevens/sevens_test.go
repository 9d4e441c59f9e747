package sevens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"casino-bot/internal/game"
	"casino-bot/internal/game/rng"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		pick   Prediction
		draw   int // IntN result, landed = draw+1
		payout int64
	}{
		{"seven hits", Seven, 6, 1000},
		{"seven misses", Seven, 7, -100},
		{"low hits on 1", Low, 0, 200},
		{"low hits on 6", Low, 5, 200},
		{"low loses on 7", Low, 6, -100},
		{"high hits on 8", High, 7, 200},
		{"high hits on 13", High, 12, 200},
		{"high loses on 7", High, 6, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(100, tt.pick, &rng.Script{Ints: []int{tt.draw}})
			assert.Equal(t, tt.draw+1, res.Landed)
			assert.Equal(t, tt.payout, res.Payout)
		})
	}
}

func TestParsePrediction(t *testing.T) {
	for in, want := range map[string]Prediction{"7": Seven, "seven": Seven, "low": Low, "l": Low, "high": High, "hi": High} {
		got, ok := ParsePrediction(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParsePrediction("8")
	assert.False(t, ok)
}

func TestLandedAlwaysInRangeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pick := rapid.SampledFrom(Predictions).Draw(t, "pick")
		res := Resolve(10, pick, rng.NewSeeded(rapid.Uint64().Draw(t, "seed")))
		if res.Landed < 1 || res.Landed > Faces {
			t.Fatalf("landed %d", res.Landed)
		}
	})
}

func TestGame_ValidateRejectsUnknown(t *testing.T) {
	err := New().Validate(game.Request{Args: []string{"middle"}})
	assert.ErrorIs(t, err, game.ErrInvalidSelection)
}
