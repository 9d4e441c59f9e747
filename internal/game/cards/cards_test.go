package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"casino-bot/internal/game/rng"
)

func TestHandValue(t *testing.T) {
	tests := []struct {
		name     string
		hand     []Card
		wantVal  int
		wantSoft bool
	}{
		{"ace ace nine is 21", []Card{C(Ace, Spades), C(Ace, Hearts), C(9, Clubs)}, 21, true},
		{"ace king", []Card{C(Ace, Spades), C(King, Hearts)}, 21, true},
		{"faces", []Card{C(King, Spades), C(Queen, Hearts)}, 20, false},
		{"soft seventeen", []Card{C(Ace, Spades), C(6, Hearts)}, 17, true},
		{"ace demoted", []Card{C(Ace, Spades), C(6, Hearts), C(9, Clubs)}, 16, false},
		{"four aces", []Card{C(Ace, Spades), C(Ace, Hearts), C(Ace, Clubs), C(Ace, Diamonds)}, 14, true},
		{"bust", []Card{C(King, Spades), C(Queen, Hearts), C(2, Clubs)}, 22, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, soft := HandValue(tt.hand)
			assert.Equal(t, tt.wantVal, v)
			assert.Equal(t, tt.wantSoft, soft)
		})
	}
}

func TestIsBlackjack(t *testing.T) {
	assert.True(t, IsBlackjack([]Card{C(Ace, Spades), C(10, Hearts)}))
	assert.False(t, IsBlackjack([]Card{C(7, Spades), C(7, Hearts), C(7, Clubs)}))
	assert.False(t, IsBlackjack([]Card{C(King, Spades), C(Queen, Hearts)}))
}

func TestHandValueNeverBustsWithDemotableAceProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		hand := make([]Card, n)
		for i := range hand {
			hand[i] = C(rapid.IntRange(Ace, King).Draw(t, "rank"), Spades)
		}

		total, soft := HandValue(hand)
		hard := HardValue(hand)

		if soft && total != hard+10 {
			t.Fatalf("soft total %d should be hard total %d + 10", total, hard)
		}
		if !soft && total != hard {
			t.Fatalf("hard total mismatch: %d vs %d", total, hard)
		}
		if total > 21 && total != hard {
			t.Fatalf("busted hand %v still counts an ace as 11", hand)
		}
	})
}

func TestShoeReshufflesBelowLowWater(t *testing.T) {
	shoe := NewShoe(1, 50, rng.NewSeeded(1))
	require.Equal(t, 52, shoe.Remaining())

	shoe.Draw()
	shoe.Draw()
	require.Equal(t, 50, shoe.Remaining())

	shoe.Draw()
	assert.Equal(t, 49, shoe.Remaining())

	// 49 < 50 forces a fresh deck before the next deal.
	shoe.Draw()
	assert.Equal(t, 51, shoe.Remaining())
}

func TestShoeMultiDeck(t *testing.T) {
	shoe := NewShoe(6, 50, rng.NewSeeded(7))
	assert.Equal(t, 312, shoe.Remaining())
}

func TestStacked(t *testing.T) {
	shoe := Stacked(C(Ace, Spades), C(King, Hearts))
	assert.Equal(t, C(Ace, Spades), shoe.Draw())
	assert.Equal(t, C(King, Hearts), shoe.Draw())
	assert.Panics(t, func() { shoe.Draw() })
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", C(Ace, Spades).String())
	assert.Equal(t, "10♥", C(10, Hearts).String())
	assert.Equal(t, "7♦", C(7, Diamonds).String())
	assert.Equal(t, "K♣", C(King, Clubs).String())
	assert.Equal(t, "A♠ K♥", Format([]Card{C(Ace, Spades), C(King, Hearts)}))
}
