package roulette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"casino-bot/internal/game"
	"casino-bot/internal/game/rng"
)

func spin(t *testing.T, prediction string, pocket int, wager int64) Result {
	t.Helper()
	bet, err := ParseBet(prediction)
	require.NoError(t, err)
	return Resolve(wager, bet, &rng.Script{Ints: []int{pocket}})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		prediction string
		pocket     int
		want       int64
	}{
		{"red on 1", "red", 1, 100},
		{"red on 2", "red", 2, -100},
		{"black on 2", "black", 2, 100},
		{"red on zero", "red", 0, -100},
		{"double zero straight", "00", DoubleZero, 3500},
		{"zero straight misses 00", "0", DoubleZero, -100},
		{"straight 17", "17", 17, 3500},
		{"green on 00", "green", DoubleZero, 1700},
		{"green on 0", "green", 0, 1700},
		{"first dozen", "1st12", 12, 200},
		{"third dozen miss", "3rd12", 24, -100},
		{"second half", "2ndhalf", 19, 100},
		{"low alias", "low", 18, 100},
		{"column one", "col1", 34, 100},
		{"third column", "3rdcol", 36, 100},
		{"halves exclude zero", "1sthalf", 0, -100},
		{"span", "5-10", 7, 100},
		{"span excludes 00", "1-18", DoubleZero, -100},
		{"set of three", "1,2,3", 2, 1200},
		{"set with 00", "0,00", DoubleZero, 1800},
		{"set miss", "1,2,3", 4, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, spin(t, tt.prediction, tt.pocket, 100).Payout)
		})
	}
}

func TestParseBet_InvalidSyntaxRejectedBeforeDraw(t *testing.T) {
	for _, p := range []string{"", "purple", "37", "-1", "1,x", "0-5", "1-19", "10-5", "1st13"} {
		t.Run(p, func(t *testing.T) {
			_, err := ParseBet(p)
			assert.ErrorIs(t, err, game.ErrInvalidSelection)
		})
	}
}

func TestSetOddsFloorAtOne(t *testing.T) {
	bet, err := ParseBet("1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20,21,22,23,24,25,26,27,28,29,30")
	require.NoError(t, err)
	assert.Equal(t, int64(1), bet.Odds.Num)
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, Green, ColorOf(0))
	assert.Equal(t, Green, ColorOf(DoubleZero))
	assert.Equal(t, Red, ColorOf(36))
	assert.Equal(t, Black, ColorOf(35))

	reds, blacks := 0, 0
	for n := 1; n <= 36; n++ {
		switch ColorOf(n) {
		case Red:
			reds++
		case Black:
			blacks++
		}
	}
	assert.Equal(t, 18, reds)
	assert.Equal(t, 18, blacks)
}

// Payout is either a loss or the bet's odds applied to the wager.
func TestResolvePayoutProperty(t *testing.T) {
	preds := []string{"red", "black", "green", "00", "0", "17", "1st12", "2nd12", "3rd12", "col2", "1sthalf", "1-6", "4,5,6,7"}
	rapid.Check(t, func(t *rapid.T) {
		pred := rapid.SampledFrom(preds).Draw(t, "prediction")
		wager := rapid.Int64Range(1, 1_000_000).Draw(t, "wager")
		seed := rapid.Uint64().Draw(t, "seed")

		bet, err := ParseBet(pred)
		if err != nil {
			t.Fatalf("parse %q: %v", pred, err)
		}
		res := Resolve(wager, bet, rng.NewSeeded(seed))
		if res.Pocket < 0 || res.Pocket >= Pockets {
			t.Fatalf("pocket %d out of range", res.Pocket)
		}
		want := -wager
		if bet.Wins(res.Pocket) {
			want = bet.Odds.Win(wager)
		}
		if res.Payout != want {
			t.Fatalf("payout %d, want %d", res.Payout, want)
		}
	})
}

func TestRouletteGame_New(t *testing.T) {
	g := New()
	req := game.Request{Wager: 100, Args: []string{"Red"}}
	require.NoError(t, g.Validate(req))

	inst, err := g.New(req, &rng.Script{Ints: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, int64(100), inst.Settlement().Payout)
	assert.Contains(t, inst.View().Lines[0], "🔴")
}
