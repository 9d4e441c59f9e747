// Package roulette implements double-zero roulette.
package roulette

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"casino-bot/internal/game"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// DoubleZero is the pocket index of "00".
const DoubleZero = 37

// Pockets is the wheel size: 0-36 plus 00.
const Pockets = 38

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// Color of a pocket.
type Color string

const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

var colorEmojis = map[Color]string{Red: "🔴", Black: "⚫", Green: "🟢"}

// ColorOf returns the pocket color. 0 and 00 are green.
func ColorOf(pocket int) Color {
	switch {
	case pocket == 0 || pocket == DoubleZero:
		return Green
	case redNumbers[pocket]:
		return Red
	default:
		return Black
	}
}

// PocketName renders 37 as "00".
func PocketName(pocket int) string {
	if pocket == DoubleZero {
		return "00"
	}
	return strconv.Itoa(pocket)
}

// Family groups predictions that share odds.
type Family string

const (
	FamilyStraight Family = "straight"
	FamilyColor    Family = "color"
	FamilyGreen    Family = "green"
	FamilyDozen    Family = "dozen"
	FamilyHalf     Family = "half"
	FamilyColumn   Family = "column"
	FamilySpan     Family = "span"
	FamilySet      Family = "set"
)

// Odds per prediction family. Sets are priced by size instead.
var Odds = payout.Table[Family]{
	FamilyStraight: payout.To(35, 1),
	FamilyColor:    payout.Even,
	FamilyGreen:    payout.To(17, 1),
	FamilyDozen:    payout.To(2, 1),
	FamilyHalf:     payout.Even,
	FamilyColumn:   payout.Even,
	FamilySpan:     payout.Even,
}

// MaxSpan is the widest "a-b" range accepted.
const MaxSpan = 18

// Bet is a parsed prediction: the pockets it covers and what it pays.
type Bet struct {
	Label  string
	Family Family
	Covers map[int]bool
	Odds   payout.Odds
}

// Wins reports whether the pocket is covered.
func (b Bet) Wins(pocket int) bool {
	return b.Covers[pocket]
}

func cover(pred func(n int) bool) map[int]bool {
	m := make(map[int]bool)
	for n := 1; n <= 36; n++ {
		if pred(n) {
			m[n] = true
		}
	}
	return m
}

var named = map[string]struct {
	family Family
	covers map[int]bool
}{
	"1sthalf": {FamilyHalf, cover(func(n int) bool { return n <= 18 })},
	"low":     {FamilyHalf, cover(func(n int) bool { return n <= 18 })},
	"2ndhalf": {FamilyHalf, cover(func(n int) bool { return n >= 19 })},
	"high":    {FamilyHalf, cover(func(n int) bool { return n >= 19 })},
	"1st12":   {FamilyDozen, cover(func(n int) bool { return n <= 12 })},
	"2nd12":   {FamilyDozen, cover(func(n int) bool { return n >= 13 && n <= 24 })},
	"3rd12":   {FamilyDozen, cover(func(n int) bool { return n >= 25 })},
	"1stcol":  {FamilyColumn, cover(func(n int) bool { return n%3 == 1 })},
	"col1":    {FamilyColumn, cover(func(n int) bool { return n%3 == 1 })},
	"2ndcol":  {FamilyColumn, cover(func(n int) bool { return n%3 == 2 })},
	"col2":    {FamilyColumn, cover(func(n int) bool { return n%3 == 2 })},
	"3rdcol":  {FamilyColumn, cover(func(n int) bool { return n%3 == 0 })},
	"col3":    {FamilyColumn, cover(func(n int) bool { return n%3 == 0 })},
}

// ParseBet parses a prediction. Syntax errors wrap game.ErrInvalidSelection.
func ParseBet(s string) (Bet, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	invalid := func(reason string) (Bet, error) {
		return Bet{}, fmt.Errorf("%w: %s", game.ErrInvalidSelection, reason)
	}
	if s == "" {
		return invalid("missing prediction")
	}

	if n, ok := parsePocket(s); ok {
		return Bet{Label: s, Family: FamilyStraight, Covers: map[int]bool{n: true}, Odds: Odds[FamilyStraight]}, nil
	}

	switch Color(s) {
	case Red, Black:
		c := Color(s)
		return Bet{Label: s, Family: FamilyColor, Covers: cover(func(n int) bool { return ColorOf(n) == c }), Odds: Odds[FamilyColor]}, nil
	case Green:
		return Bet{Label: s, Family: FamilyGreen, Covers: map[int]bool{0: true, DoubleZero: true}, Odds: Odds[FamilyGreen]}, nil
	}

	if r, ok := named[s]; ok {
		return Bet{Label: s, Family: r.family, Covers: r.covers, Odds: Odds[r.family]}, nil
	}

	if strings.Contains(s, ",") {
		covers := make(map[int]bool)
		for _, part := range strings.Split(s, ",") {
			n, ok := parsePocket(strings.TrimSpace(part))
			if !ok {
				return invalid(fmt.Sprintf("%q is not a roulette number", part))
			}
			covers[n] = true
		}
		mult := int64(36 / len(covers))
		if mult < 1 {
			mult = 1
		}
		return Bet{Label: s, Family: FamilySet, Covers: covers, Odds: payout.To(mult, 1)}, nil
	}

	if lo, hi, found := strings.Cut(s, "-"); found {
		a, errA := strconv.Atoi(lo)
		b, errB := strconv.Atoi(hi)
		if errA != nil || errB != nil || a < 1 || b > 36 || a > b {
			return invalid("ranges look like 1-18")
		}
		if b-a+1 > MaxSpan {
			return invalid(fmt.Sprintf("ranges cover at most %d numbers", MaxSpan))
		}
		return Bet{Label: s, Family: FamilySpan, Covers: cover(func(n int) bool { return n >= a && n <= b }), Odds: Odds[FamilySpan]}, nil
	}

	return invalid(fmt.Sprintf("unknown prediction %q", s))
}

func parsePocket(s string) (int, bool) {
	if s == "00" {
		return DoubleZero, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 36 {
		return 0, false
	}
	return n, true
}

// Result of a spin.
type Result struct {
	Bet    Bet
	Pocket int
	Payout int64
}

// Resolve spins the wheel once.
func Resolve(wager int64, bet Bet, src rng.Source) Result {
	pocket := src.IntN(Pockets)
	return Result{Bet: bet, Pocket: pocket, Payout: bet.Odds.Settle(wager, bet.Wins(pocket))}
}

// RouletteGame is the roulette catalog entry.
type RouletteGame struct{}

// New creates the roulette game.
func New() *RouletteGame {
	return &RouletteGame{}
}

func (r *RouletteGame) Kind() game.Kind { return game.KindRoulette }
func (r *RouletteGame) Name() string { return "Roulette" }
func (r *RouletteGame) Wagered() bool { return true }

// Description returns a brief description of the game.
func (r *RouletteGame) Description() string {
	return "Bet on a number (35:1), red/black (1:1), green (17:1), dozens (2:1), halves, columns, ranges like 1-18 or sets like 1,2,3."
}

// Validate parses the prediction.
func (r *RouletteGame) Validate(req game.Request) error {
	_, err := ParseBet(req.Arg(0))
	return err
}

// New spins the wheel and returns the settled round.
func (r *RouletteGame) New(req game.Request, src rng.Source) (game.Instance, error) {
	bet, err := ParseBet(req.Arg(0))
	if err != nil {
		return nil, err
	}

	res := Resolve(req.Wager, bet, src)
	return game.Resolved(
		game.NewSettlement(req, game.KindRoulette, res.Payout, describe(res)),
		View(res),
	), nil
}

// View renders a spin.
func View(res Result) game.View {
	color := ColorOf(res.Pocket)
	odds := "Loss"
	if res.Payout > 0 {
		odds = res.Bet.Odds.String()
	}
	return game.View{
		Kind:  game.KindRoulette,
		Title: "🎰 Roulette Result",
		Phase: "spun",
		Lines: []string{
			fmt.Sprintf("The ball landed on: %s %s", PocketName(res.Pocket), colorEmojis[color]),
			fmt.Sprintf("You bet on: %s", res.Bet.Label),
			fmt.Sprintf("Odds: %s", odds),
		},
	}
}

// Numbers lists the covered pockets in wheel order.
func (b Bet) Numbers() []string {
	nums := make([]int, 0, len(b.Covers))
	for n := range b.Covers {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	out := make([]string, len(nums))
	for i, n := range nums {
		out[i] = PocketName(n)
	}
	return out
}

func describe(res Result) string {
	if res.Payout > 0 {
		return fmt.Sprintf("Ball on %s. %s pays %s: you won %d coins!", PocketName(res.Pocket), res.Bet.Label, res.Bet.Odds, res.Payout)
	}
	return fmt.Sprintf("Ball on %s. You lost %d coins.", PocketName(res.Pocket), -res.Payout)
}
