package coinflip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-bot/internal/game"
	"casino-bot/internal/game/rng"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		pick   Side
		draw   int
		want   int64
		landed Side
	}{
		{"heads on heads", Heads, 0, 1000, Heads},
		{"heads on tails", Heads, 1, -1000, Tails},
		{"tails on tails", Tails, 1, 1000, Tails},
		{"tails on heads", Tails, 0, -1000, Heads},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(1000, tt.pick, &rng.Script{Ints: []int{tt.draw}})
			assert.Equal(t, tt.want, res.Payout)
			assert.Equal(t, tt.landed, res.Landed)
		})
	}
}

func TestParseSide(t *testing.T) {
	for _, s := range []string{"heads", "head", "h"} {
		side, ok := ParseSide(s)
		assert.True(t, ok)
		assert.Equal(t, Heads, side)
	}
	for _, s := range []string{"tails", "tail", "t"} {
		side, ok := ParseSide(s)
		assert.True(t, ok)
		assert.Equal(t, Tails, side)
	}
	_, ok := ParseSide("edge")
	assert.False(t, ok)
}

func TestGame_New(t *testing.T) {
	g := New()
	req := game.Request{PlayerID: 9, Wager: 1000, Args: []string{"Heads"}}
	require.NoError(t, g.Validate(req))

	inst, err := g.New(req, &rng.Script{Ints: []int{0}})
	require.NoError(t, err)
	require.True(t, inst.Terminal())

	s := inst.Settlement()
	assert.Equal(t, int64(9), s.PlayerID)
	assert.Equal(t, game.KindCoinflip, s.Kind)
	assert.Equal(t, int64(1000), s.Payout)
	assert.Equal(t, game.OutcomeWin, s.Outcome)
	assert.ErrorIs(t, inst.Apply(game.Decision{Action: game.ActionHit}), game.ErrGameOver)
}

func TestGame_ValidateRejectsBadSide(t *testing.T) {
	err := New().Validate(game.Request{Wager: 10, Args: []string{"middle"}})
	assert.ErrorIs(t, err, game.ErrInvalidSelection)

	err = New().Validate(game.Request{Wager: 10})
	assert.ErrorIs(t, err, game.ErrInvalidSelection)
}
