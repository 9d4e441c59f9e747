package rps

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
		player Move
		house  int // index into Moves
		payout int64
	}{
		{"rock beats scissors", Rock, 2, 50},
		{"paper beats rock", Paper, 0, 50},
		{"scissors beats paper", Scissors, 1, 50},
		{"rock loses to paper", Rock, 1, -100},
		{"tie refunds", Scissors, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(100, tt.player, &rng.Script{Ints: []int{tt.house}})
			assert.Equal(t, tt.payout, res.Payout)
		})
	}
}

func TestOddWagerRoundsDown(t *testing.T) {
	res := Resolve(101, Rock, &rng.Script{Ints: []int{2}})
	assert.Equal(t, int64(50), res.Payout)
}

// Dominance is cyclic: every pair of distinct moves has exactly one winner.
func TestBeatsIsCyclicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.SampledFrom(Moves).Draw(t, "a")
		b := rapid.SampledFrom(Moves).Draw(t, "b")
		if a == b {
			if Beats(a, b) {
				t.Fatalf("%s beats itself", a)
			}
			return
		}
		if Beats(a, b) == Beats(b, a) {
			t.Fatalf("%s vs %s has no single winner", a, b)
		}
	})
}

func TestGame_New(t *testing.T) {
	inst, err := New().New(game.Request{Wager: 10, Args: []string{"P"}}, &rng.Script{Ints: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, game.OutcomePush, inst.Settlement().Outcome)

	assert.ErrorIs(t, New().Validate(game.Request{Args: []string{"lizard"}}), game.ErrInvalidSelection)
}
