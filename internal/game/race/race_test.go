package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"casino-bot/internal/game"
	"casino-bot/internal/game/rng"
)

var tick = game.Decision{Action: game.ActionTick}

func run(t *testing.T, r *Race) {
	t.Helper()
	for i := 0; !r.Terminal(); i++ {
		require.Less(t, i, MaxTicks+Countdown+1)
		require.NoError(t, r.Apply(tick))
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Selection
		wantErr bool
	}{
		{"turtle", []string{"turtle", "2"}, Selection{Turtle, 2}, false},
		{"dinosaur short", []string{"di", "12"}, Selection{Dinosaur, 12}, false},
		{"horse short", []string{"H", "8"}, Selection{Horse, 8}, false},
		{"unknown category", []string{"snail", "1"}, Selection{}, true},
		{"pick above racers", []string{"dog", "6"}, Selection{}, true},
		{"pick zero", []string{"t", "0"}, Selection{}, true},
		{"missing pick", []string{"t"}, Selection{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection(game.Request{Args: tt.args})
			if tt.wantErr {
				assert.ErrorIs(t, err, game.ErrInvalidSelection)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountdownThenRun(t *testing.T) {
	r := Start(game.Request{Wager: 100}, Selection{Turtle, 1}, DefaultTick, rng.NewSeeded(7))
	for i := 0; i < Countdown; i++ {
		assert.Equal(t, PhaseCountdown, r.Phase())
		require.NoError(t, r.Apply(tick))
	}
	assert.Equal(t, PhaseRunning, r.Phase())
}

func TestLeaderTieBreak(t *testing.T) {
	racer, pos := Leader([]int{3, 11, 11, 10})
	assert.Equal(t, 2, racer)
	assert.Equal(t, 11, pos)

	racer, _ = Leader([]int{0, 0, 0})
	assert.Equal(t, 1, racer)
}

func TestScriptedWin(t *testing.T) {
	// Every racer moves each tick; racer 2 moves 2, the others 1.
	var script rng.Script
	for tickN := 0; tickN < 5; tickN++ {
		for racer := 0; racer < 3; racer++ {
			script.Floats = append(script.Floats, 0.1)
			step := 0
			if racer == 1 {
				step = 1
			}
			script.Ints = append(script.Ints, step)
		}
	}

	r := Start(game.Request{Wager: 100}, Selection{Turtle, 2}, DefaultTick, &script)
	run(t, r)
	assert.Equal(t, 2, r.Winner())
	assert.Equal(t, []int{5, 10, 5}, r.Positions())
	assert.Equal(t, int64(200), r.Settlement().Payout)
	assert.ErrorIs(t, r.Apply(tick), game.ErrGameOver)
}

func TestPlayerDecisionsRejected(t *testing.T) {
	r := Start(game.Request{Wager: 100}, Selection{Dog, 1}, DefaultTick, rng.NewSeeded(1))
	assert.ErrorIs(t, r.Apply(game.Decision{Action: game.ActionPick, Value: 2}), game.ErrInvalidDecision)
}

func TestMaxTicksFinishesWithLeader(t *testing.T) {
	// A source that never moves anyone.
	r := Start(game.Request{Wager: 100}, Selection{Turtle, 1}, DefaultTick, &neverMove{})
	run(t, r)
	assert.Equal(t, 1, r.Winner())
	assert.Equal(t, int64(200), r.Settlement().Payout)
}

type neverMove struct{}

func (neverMove) IntN(int) int { return 0 }
func (neverMove) Float64() float64 { return 0.99 }
func (neverMove) Shuffle(int, func(i, j int)) {}

// The winner is always a leader and the payout follows the pick.
func TestWinnerIsLeaderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cat := rapid.SampledFrom(Categories).Draw(t, "category")
		pick := rapid.IntRange(1, cat.Racers).Draw(t, "pick")
		r := Start(game.Request{Wager: 10}, Selection{cat, pick}, DefaultTick, rng.NewSeeded(rapid.Uint64().Draw(t, "seed")))
		for !r.Terminal() {
			if err := r.Apply(tick); err != nil {
				t.Fatal(err)
			}
		}
		w := r.Winner()
		for i, p := range r.Positions() {
			if p > r.Positions()[w-1] || (p == r.Positions()[w-1] && i+1 < w) {
				t.Fatalf("racer %d at %d beats winner %d", i+1, p, w)
			}
		}
		want := int64(-10)
		if w == pick {
			want = 10 * int64(cat.Racers-1)
		}
		if r.Settlement().Payout != want {
			t.Fatalf("payout %d, want %d", r.Settlement().Payout, want)
		}
	})
}
