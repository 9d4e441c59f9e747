// Package coinflip implements the coin toss game.
package coinflip

import (
	"fmt"

	"casino-bot/internal/game"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// Side of the coin.
type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

var sides = [...]Side{Heads, Tails}

// Odds pays even money.
var Odds = payout.Even

// ParseSide accepts heads/head/h and tails/tail/t.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "heads", "head", "h":
		return Heads, true
	case "tails", "tail", "t":
		return Tails, true
	}
	return "", false
}

// Result of a toss.
type Result struct {
	Pick   Side
	Landed Side
	Payout int64
}

// Resolve tosses the coin once.
func Resolve(wager int64, pick Side, src rng.Source) Result {
	landed := sides[src.IntN(len(sides))]
	return Result{
		Pick:   pick,
		Landed: landed,
		Payout: Odds.Settle(wager, landed == pick),
	}
}

// Game is the coinflip catalog entry.
type Game struct{}

// New creates the coinflip game.
func New() *Game {
	return &Game{}
}

func (g *Game) Kind() game.Kind { return game.KindCoinflip }
func (g *Game) Name() string { return "Coinflip" }
func (g *Game) Wagered() bool { return true }
func (g *Game) Description() string { return "Call heads or tails. Pays 1:1." }

// Validate checks the called side.
func (g *Game) Validate(req game.Request) error {
	if _, ok := ParseSide(req.Arg(0)); !ok {
		return fmt.Errorf("%w: choose heads or tails", game.ErrInvalidSelection)
	}
	return nil
}

// New tosses the coin and returns the settled round.
func (g *Game) New(req game.Request, src rng.Source) (game.Instance, error) {
	pick, ok := ParseSide(req.Arg(0))
	if !ok {
		return nil, fmt.Errorf("%w: choose heads or tails", game.ErrInvalidSelection)
	}

	res := Resolve(req.Wager, pick, src)
	return game.Resolved(
		game.NewSettlement(req, game.KindCoinflip, res.Payout, describe(res)),
		View(res),
	), nil
}

// View renders a toss.
func View(res Result) game.View {
	return game.View{
		Kind:  game.KindCoinflip,
		Title: "🪙 Coinflip",
		Phase: "landed",
		Lines: []string{
			fmt.Sprintf("You called %s.", res.Pick),
			fmt.Sprintf("The coin landed on %s!", res.Landed),
		},
	}
}

func describe(res Result) string {
	if res.Payout > 0 {
		return fmt.Sprintf("Landed on %s. You won %d coins!", res.Landed, res.Payout)
	}
	return fmt.Sprintf("Landed on %s. You lost %d coins.", res.Landed, -res.Payout)
}
