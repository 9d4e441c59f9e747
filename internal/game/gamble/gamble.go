// Package gamble plays a randomly chosen single-shot game with a random
// selection on the player's behalf.
package gamble

import (
	"casino-bot/internal/game"
	"casino-bot/internal/game/coinflip"
	"casino-bot/internal/game/rng"
	"casino-bot/internal/game/rps"
	"casino-bot/internal/game/sevens"
	"casino-bot/internal/game/slot"
)

// Pool is the set of games gamble picks from, in draw order.
var Pool = []game.Kind{game.KindCoinflip, game.KindSlots, game.KindRPS, game.KindSevens}

var coinSides = []coinflip.Side{coinflip.Heads, coinflip.Tails}

// Game is the gamble catalog entry.
type Game struct{}

// New creates the gamble game.
func New() *Game {
	return &Game{}
}

func (g *Game) Kind() game.Kind { return game.KindGamble }
func (g *Game) Name() string { return "Random Gamble" }
func (g *Game) Wagered() bool { return true }
func (g *Game) Description() string { return "Plays coinflip, slots, rps or sevens with a random pick." }
func (g *Game) Validate(game.Request) error { return nil }

// New picks the sub-game, draws its selection and resolves it. The
// settlement is recorded under gamble.
func (g *Game) New(req game.Request, src rng.Source) (game.Instance, error) {
	var (
		payout int64
		view   game.View
		desc   string
	)

	switch Pool[src.IntN(len(Pool))] {
	case game.KindCoinflip:
		res := coinflip.Resolve(req.Wager, coinSides[src.IntN(len(coinSides))], src)
		payout, view = res.Payout, coinflip.View(res)
		desc = "Coinflip: " + string(res.Pick) + " vs " + string(res.Landed)
	case game.KindSlots:
		res := slot.Resolve(req.Wager, src)
		payout, view = res.Payout, slot.View(res)
		desc = "Slots: " + slot.Display(res.Reels)
	case game.KindRPS:
		res := rps.Resolve(req.Wager, rps.Moves[src.IntN(len(rps.Moves))], src)
		payout, view = res.Payout, rps.View(res)
		desc = "RPS: " + string(res.Player) + " vs " + string(res.House)
	default:
		res := sevens.Resolve(req.Wager, sevens.Predictions[src.IntN(len(sevens.Predictions))], src)
		payout, view = res.Payout, sevens.View(res)
		desc = "Sevens: " + string(res.Pick)
	}

	view.Title = "🎰 Random Gamble - " + view.Title
	view.Kind = game.KindGamble
	return game.Resolved(game.NewSettlement(req, game.KindGamble, payout, desc), view), nil
}
