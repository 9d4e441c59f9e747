// Package slot implements the three-reel slot machine.
package slot

import (
	"fmt"
	"strings"

	"casino-bot/internal/game"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// Symbol on a reel.
type Symbol string

// Reel symbols, most common first.
const (
	Cherry Symbol = "🍒"
	Lemon  Symbol = "🍋"
	Orange Symbol = "🍊"
	Grape  Symbol = "🍇"
	Bell   Symbol = "🔔"
	Star   Symbol = "⭐"
)

// Reels is the number of reels spun per round.
const Reels = 3

// Symbols and Weights are parallel: Weights[i] is the relative frequency of
// Symbols[i] on every reel.
var (
	Symbols = []Symbol{Cherry, Lemon, Orange, Grape, Bell, Star}
	Weights = []int{30, 25, 20, 15, 8, 2}
)

// Run is a symbol appearing count times on the reels.
type Run struct {
	Symbol Symbol
	Count  int
}

// Paytable is keyed by (symbol, run length).
var Paytable = payout.Table[Run]{
	{Star, 3}: payout.To(500, 1), {Star, 2}: payout.To(25, 1),
	{Bell, 3}: payout.To(25, 1), {Bell, 2}: payout.To(10, 1),
	{Grape, 3}: payout.To(5, 1), {Grape, 2}: payout.To(3, 1),
	{Orange, 3}: payout.To(3, 1), {Orange, 2}: payout.To(2, 1),
	{Lemon, 3}: payout.To(2, 1), {Lemon, 2}: payout.Even,
	{Cherry, 3}: payout.Even, {Cherry, 2}: payout.Even,
}

// Spin draws each reel independently from the weighted symbol set.
func Spin(src rng.Source) [Reels]Symbol {
	var reels [Reels]Symbol
	for i := range reels {
		reels[i] = Symbols[rng.Weighted(src, Weights)]
	}
	return reels
}

// BestRun returns the matching run with the highest paytable multiplier.
// ok is false when no symbol repeats.
func BestRun(reels [Reels]Symbol) (best Run, ok bool) {
	counts := make(map[Symbol]int, Reels)
	for _, s := range reels {
		counts[s]++
	}

	var bestOdds payout.Odds
	// Iterate in paytable symbol order so ties resolve the same way every time.
	for _, sym := range Symbols {
		n := counts[sym]
		if n < 2 {
			continue
		}
		odds, found := Paytable.Lookup(Run{sym, n})
		if !found {
			continue
		}
		if !ok || odds.Num*bestOdds.Den > bestOdds.Num*odds.Den {
			best, bestOdds, ok = Run{sym, n}, odds, true
		}
	}
	return best, ok
}

// CalculatePayout pays the best run's multiplier, or −bet with no match.
func CalculatePayout(reels [Reels]Symbol, bet int64) int64 {
	run, ok := BestRun(reels)
	if !ok {
		return payout.Loss(bet)
	}
	return Paytable.Settle(run, bet, true)
}

// Result of a spin.
type Result struct {
	Reels  [Reels]Symbol
	Run    Run
	Hit    bool
	Payout int64
}

// Resolve spins once.
func Resolve(wager int64, src rng.Source) Result {
	reels := Spin(src)
	run, hit := BestRun(reels)
	return Result{Reels: reels, Run: run, Hit: hit, Payout: CalculatePayout(reels, wager)}
}

// SlotGame is the slots catalog entry.
type SlotGame struct{}

// New creates the slot machine.
func New() *SlotGame {
	return &SlotGame{}
}

func (s *SlotGame) Kind() game.Kind { return game.KindSlots }
func (s *SlotGame) Name() string { return "Slot Machine" }
func (s *SlotGame) Wagered() bool { return true }

// Description returns a brief description of the game.
func (s *SlotGame) Description() string {
	return "Spin three reels. Pairs and triples pay by symbol, up to 500x for three stars."
}

// Validate accepts any request; slots take no selection.
func (s *SlotGame) Validate(game.Request) error {
	return nil
}

// New spins the reels and returns the settled round.
func (s *SlotGame) New(req game.Request, src rng.Source) (game.Instance, error) {
	res := Resolve(req.Wager, src)
	return game.Resolved(
		game.NewSettlement(req, game.KindSlots, res.Payout, describe(res)),
		View(res),
	), nil
}

// Display renders the reels.
func Display(reels [Reels]Symbol) string {
	parts := make([]string, len(reels))
	for i, r := range reels {
		parts[i] = string(r)
	}
	return strings.Join(parts, " | ")
}

// View renders a spin.
func View(res Result) game.View {
	combo := "No match"
	if res.Hit {
		combo = fmt.Sprintf("%dx %s", res.Run.Count, res.Run.Symbol)
	}
	return game.View{
		Kind:  game.KindSlots,
		Title: "🎰 Slot Machine",
		Phase: "spun",
		Lines: []string{
			"[ " + Display(res.Reels) + " ]",
			"Combination: " + combo,
		},
	}
}

func describe(res Result) string {
	if res.Payout > 0 {
		return fmt.Sprintf("%s - %dx %s! You won %d coins!", Display(res.Reels), res.Run.Count, res.Run.Symbol, res.Payout)
	}
	return fmt.Sprintf("%s - no match. You lost %d coins.", Display(res.Reels), -res.Payout)
}
