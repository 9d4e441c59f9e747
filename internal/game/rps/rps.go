// Package rps implements rock-paper-scissors against the house.
package rps

import (
	"fmt"

	"casino-bot/internal/game"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// Move is a hand sign.
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

// Moves in draw order.
var Moves = []Move{Rock, Paper, Scissors}

// beats[m] is the move m defeats.
var beats = map[Move]Move{Rock: Scissors, Paper: Rock, Scissors: Paper}

var emojis = map[Move]string{Rock: "🪨", Paper: "📄", Scissors: "✂️"}

// Odds pays half the wager on a win. Ties refund.
var Odds = payout.To(1, 2)

// ParseMove accepts full names and r/p/s.
func ParseMove(s string) (Move, bool) {
	switch s {
	case "rock", "r":
		return Rock, true
	case "paper", "p":
		return Paper, true
	case "scissors", "scissor", "s":
		return Scissors, true
	}
	return "", false
}

// Beats reports whether a defeats b.
func Beats(a, b Move) bool {
	return beats[a] == b
}

// Result of a throw.
type Result struct {
	Player Move
	House  Move
	Payout int64
}

// Resolve throws the house move once.
func Resolve(wager int64, player Move, src rng.Source) Result {
	house := Moves[src.IntN(len(Moves))]
	res := Result{Player: player, House: house}
	switch {
	case player == house:
		res.Payout = payout.Push
	case Beats(player, house):
		res.Payout = Odds.Win(wager)
	default:
		res.Payout = payout.Loss(wager)
	}
	return res
}

// Game is the rock-paper-scissors catalog entry.
type Game struct{}

// New creates the game.
func New() *Game {
	return &Game{}
}

func (g *Game) Kind() game.Kind { return game.KindRPS }
func (g *Game) Name() string { return "Rock Paper Scissors" }
func (g *Game) Wagered() bool { return true }
func (g *Game) Description() string { return "Rock, paper or scissors. Wins pay 1:2, ties refund." }

// Validate checks the thrown move.
func (g *Game) Validate(req game.Request) error {
	if _, ok := ParseMove(req.Arg(0)); !ok {
		return fmt.Errorf("%w: choose rock, paper or scissors", game.ErrInvalidSelection)
	}
	return nil
}

// New throws against the house and returns the settled round.
func (g *Game) New(req game.Request, src rng.Source) (game.Instance, error) {
	move, ok := ParseMove(req.Arg(0))
	if !ok {
		return nil, fmt.Errorf("%w: choose rock, paper or scissors", game.ErrInvalidSelection)
	}

	res := Resolve(req.Wager, move, src)
	return game.Resolved(
		game.NewSettlement(req, game.KindRPS, res.Payout, describe(res)),
		View(res),
	), nil
}

// View renders a throw.
func View(res Result) game.View {
	return game.View{
		Kind:  game.KindRPS,
		Title: "✂️ Rock Paper Scissors",
		Phase: "thrown",
		Lines: []string{
			fmt.Sprintf("You chose: %s %s", res.Player, emojis[res.Player]),
			fmt.Sprintf("Bot chose: %s %s", res.House, emojis[res.House]),
		},
	}
}

func describe(res Result) string {
	switch {
	case res.Payout > 0:
		return fmt.Sprintf("%s beats %s. You won %d coins!", res.Player, res.House, res.Payout)
	case res.Payout == 0:
		return "It's a tie! Your bet is returned."
	default:
		return fmt.Sprintf("%s beats %s. You lost %d coins.", res.House, res.Player, -res.Payout)
	}
}
