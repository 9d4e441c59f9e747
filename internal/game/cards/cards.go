// Package cards provides playing cards, multi-deck shoes and blackjack hand
// totaling.
package cards

import (
	"strconv"
	"strings"

	"casino-bot/internal/game/rng"
)

// Suit of a card.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suitSymbols = [...]string{"♠", "♥", "♦", "♣"}

func (s Suit) String() string {
	if s < 0 || int(s) >= len(suitSymbols) {
		return "?"
	}
	return suitSymbols[s]
}

// Rank values: A=1 ... K=13.
const (
	Ace   = 1
	Jack  = 11
	Queen = 12
	King  = 13
)

var rankNames = map[int]string{Ace: "A", Jack: "J", Queen: "Q", King: "K"}

// Card is a rank and suit.
type Card struct {
	Rank int
	Suit Suit
}

// C is shorthand for Card{Rank: rank, Suit: suit}.
func C(rank int, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// RankName returns "A", "2" ... "10", "J", "Q" or "K".
func (c Card) RankName() string {
	if n, ok := rankNames[c.Rank]; ok {
		return n
	}
	return strconv.Itoa(c.Rank)
}

func (c Card) String() string {
	return c.RankName() + c.Suit.String()
}

// BlackjackValue counts faces as 10 and aces as 11.
func (c Card) BlackjackValue() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= 10:
		return 10
	default:
		return c.Rank
	}
}

// Deck returns an ordered 52-card deck.
func Deck() []Card {
	deck := make([]Card, 0, 52)
	for s := Spades; s <= Clubs; s++ {
		for r := Ace; r <= King; r++ {
			deck = append(deck, C(r, s))
		}
	}
	return deck
}

// HandValue totals a blackjack hand. Aces count 11 and demote to 1 one at a
// time while the hand would bust. soft reports whether an ace still counts 11.
func HandValue(hand []Card) (total int, soft bool) {
	aces := 0
	for _, c := range hand {
		total += c.BlackjackValue()
		if c.Rank == Ace {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total, aces > 0
}

// HardValue totals a hand with every ace counted as 1.
func HardValue(hand []Card) int {
	total := 0
	for _, c := range hand {
		if c.Rank == Ace {
			total++
			continue
		}
		total += c.BlackjackValue()
	}
	return total
}

// IsBlackjack reports a two-card 21.
func IsBlackjack(hand []Card) bool {
	if len(hand) != 2 {
		return false
	}
	v, _ := HandValue(hand)
	return v == 21
}

// IsBust reports a total over 21.
func IsBust(hand []Card) bool {
	v, _ := HandValue(hand)
	return v > 21
}

// Format renders a hand as space-separated cards.
func Format(hand []Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Shoe deals from one or more shuffled decks and reshuffles a fresh shoe
// whenever fewer than lowWater cards remain.
type Shoe struct {
	decks    int
	lowWater int
	cards    []Card
	next     int
	src      rng.Source
}

// NewShoe builds and shuffles a shoe of the given number of decks.
func NewShoe(decks, lowWater int, src rng.Source) *Shoe {
	if decks < 1 {
		decks = 1
	}
	s := &Shoe{decks: decks, lowWater: lowWater, src: src}
	s.reset()
	return s
}

// Stacked returns a shoe that deals exactly the given cards in order and
// never reshuffles. It panics when drawn past the end.
func Stacked(cards ...Card) *Shoe {
	return &Shoe{cards: cards, lowWater: -1}
}

func (s *Shoe) reset() {
	s.cards = s.cards[:0]
	for i := 0; i < s.decks; i++ {
		s.cards = append(s.cards, Deck()...)
	}
	s.next = 0
	s.src.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
}

// Remaining returns the number of undealt cards.
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.next
}

// Draw deals the next card, reshuffling first if the shoe is low.
func (s *Shoe) Draw() Card {
	if s.lowWater >= 0 && s.Remaining() < s.lowWater {
		s.reset()
	}
	if s.Remaining() == 0 {
		panic("cards: draw from empty stacked shoe")
	}
	c := s.cards[s.next]
	s.next++
	return c
}
