// Package sevens implements the 1-13 number-range game.
package sevens

import (
	"fmt"

	"casino-bot/internal/game"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// Faces is the size of the draw: 1..13.
const Faces = 13

// Prediction is the called band.
type Prediction string

const (
	Seven Prediction = "7"
	Low   Prediction = "low"
	High  Prediction = "high"
)

// Predictions lists every valid call.
var Predictions = []Prediction{Seven, Low, High}

// Odds per prediction.
var Odds = payout.Table[Prediction]{
	Seven: payout.To(10, 1),
	Low:   payout.To(2, 1),
	High:  payout.To(2, 1),
}

// ParsePrediction accepts 7/seven, low/l and high/hi.
func ParsePrediction(s string) (Prediction, bool) {
	switch s {
	case "7", "seven":
		return Seven, true
	case "low", "l":
		return Low, true
	case "high", "hi":
		return High, true
	}
	return "", false
}

// Band returns the category a drawn number falls in.
func Band(n int) Prediction {
	switch {
	case n == 7:
		return Seven
	case n < 7:
		return Low
	default:
		return High
	}
}

// Result of a draw.
type Result struct {
	Pick   Prediction
	Landed int
	Payout int64
}

// Resolve draws once from 1..13.
func Resolve(wager int64, pick Prediction, src rng.Source) Result {
	n := src.IntN(Faces) + 1
	return Result{Pick: pick, Landed: n, Payout: Odds.Settle(pick, wager, Band(n) == pick)}
}

// Game is the sevens catalog entry.
type Game struct{}

// New creates the sevens game.
func New() *Game {
	return &Game{}
}

func (g *Game) Kind() game.Kind { return game.KindSevens }
func (g *Game) Name() string { return "Sevens" }
func (g *Game) Wagered() bool { return true }

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "A ball lands on 1-13. Seven pays 10:1, low (1-6) or high (8-13) pays 2:1."
}

// Validate checks the called band.
func (g *Game) Validate(req game.Request) error {
	if _, ok := ParsePrediction(req.Arg(0)); !ok {
		return fmt.Errorf("%w: choose 7, low or high", game.ErrInvalidSelection)
	}
	return nil
}

// New draws the ball and returns the settled round.
func (g *Game) New(req game.Request, src rng.Source) (game.Instance, error) {
	pick, ok := ParsePrediction(req.Arg(0))
	if !ok {
		return nil, fmt.Errorf("%w: choose 7, low or high", game.ErrInvalidSelection)
	}

	res := Resolve(req.Wager, pick, src)
	return game.Resolved(
		game.NewSettlement(req, game.KindSevens, res.Payout, describe(res)),
		View(res),
	), nil
}

var bandNames = map[Prediction]string{
	Seven: "Seven! 🎯",
	Low:   "Low (1-6) 📉",
	High:  "High (8-13) 📈",
}

// View renders a draw.
func View(res Result) game.View {
	return game.View{
		Kind:  game.KindSevens,
		Title: "🎱 Sevens",
		Phase: "landed",
		Lines: []string{
			fmt.Sprintf("The ball landed on: %d", res.Landed),
			fmt.Sprintf("Category: %s", bandNames[Band(res.Landed)]),
			fmt.Sprintf("You predicted: %s (%s)", res.Pick, Odds[res.Pick]),
		},
	}
}

func describe(res Result) string {
	if res.Payout > 0 {
		return fmt.Sprintf("Ball on %d. You won %d coins!", res.Landed, res.Payout)
	}
	return fmt.Sprintf("Ball on %d. You lost %d coins.", res.Landed, -res.Payout)
}
