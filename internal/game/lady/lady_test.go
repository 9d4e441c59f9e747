package lady

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"casino-bot/internal/game"
	"casino-bot/internal/game/rng"
)

// advance plays the show and shuffle phases through their default decisions.
func advance(t *testing.T, r *Round) {
	t.Helper()
	for r.Phase() != PhaseAwaitingPick {
		_, def := r.Wait()
		require.NoError(t, r.Apply(def))
	}
}

func pick(n int) game.Decision {
	return game.Decision{Action: game.ActionPick, Value: n}
}

func TestPhases(t *testing.T) {
	r := Deal(game.Request{Wager: 100}, DefaultConfig, NormalCards, &rng.Script{Ints: []int{1}})
	d, _ := r.Wait()
	assert.Equal(t, 3*time.Second, d)
	assert.Contains(t, r.View().Text(), "👑 👸 👑")

	assert.ErrorIs(t, r.Apply(pick(2)), game.ErrInvalidDecision)

	require.NoError(t, r.Apply(game.Decision{Action: game.ActionTick}))
	assert.Equal(t, PhaseShuffled, r.Phase())
	d, _ = r.Wait()
	assert.Equal(t, 2*time.Second, d)

	require.NoError(t, r.Apply(game.Decision{Action: game.ActionTick}))
	assert.Equal(t, PhaseAwaitingPick, r.Phase())
	assert.Len(t, r.View().Choices, 3)
	assert.NotContains(t, r.View().Text(), "👸")
}

func TestPick(t *testing.T) {
	tests := []struct {
		name   string
		mode   game.Mode
		target int
		pick   int
		want   int64
	}{
		{"normal correct", game.ModeNormal, 0, 1, 200},
		{"normal wrong", game.ModeNormal, 0, 3, -100},
		{"hard correct", game.ModeHard, 4, 5, 400},
		{"hard wrong", game.ModeHard, 4, 1, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := game.Request{Wager: 100, Mode: tt.mode}
			r := Deal(req, DefaultConfig, CardCount(tt.mode), &rng.Script{Ints: []int{tt.target}})
			advance(t, r)
			require.NoError(t, r.Apply(pick(tt.pick)))
			require.True(t, r.Terminal())
			assert.Equal(t, tt.want, r.Settlement().Payout)
		})
	}
}

func TestPickOutOfRangeIsRejected(t *testing.T) {
	r := Deal(game.Request{Wager: 100}, DefaultConfig, NormalCards, &rng.Script{})
	advance(t, r)
	assert.ErrorIs(t, r.Apply(pick(4)), game.ErrInvalidDecision)
	assert.False(t, r.Terminal())
}

func TestTimeoutForfeits(t *testing.T) {
	r := Deal(game.Request{Wager: 100}, DefaultConfig, NormalCards, &rng.Script{})
	advance(t, r)

	d, def := r.Wait()
	assert.Equal(t, 30*time.Second, d)
	require.Equal(t, game.ActionForfeit, def.Action)
	require.NoError(t, r.Apply(def))

	assert.Equal(t, int64(-100), r.Settlement().Payout)
	assert.Contains(t, r.View().Text(), "Time's up")
	assert.ErrorIs(t, r.Apply(pick(1)), game.ErrGameOver)
}

func TestTargetInRangeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mode := rapid.SampledFrom([]game.Mode{game.ModeNormal, game.ModeHard}).Draw(t, "mode")
		r := Deal(game.Request{Wager: 1, Mode: mode}, DefaultConfig, CardCount(mode), rng.NewSeeded(rapid.Uint64().Draw(t, "seed")))
		if r.Target() < 1 || r.Target() > CardCount(mode) {
			t.Fatalf("target %d", r.Target())
		}
	})
}
