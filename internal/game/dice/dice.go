// Package dice implements the prediction dice game: call the face of a
// d4 to d20 and win bet × (faces − 1) on an exact match.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"casino-bot/internal/game"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// AllowedFaces are the supported dice sizes.
var AllowedFaces = []int{4, 6, 8, 10, 12, 20}

// Errors for dice game
var (
	ErrInvalidDice       = errors.New("dice must be one of d4, d6, d8, d10, d12, d20")
	ErrInvalidPrediction = errors.New("prediction must be between 1 and the number of faces")
)

var faceEmojis = [...]string{"", "⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// Roll is a parsed dice selection.
type Roll struct {
	Faces      int
	Prediction int
}

// Odds returns the exact-match odds for an n-sided die.
func Odds(faces int) payout.Odds {
	return payout.To(int64(faces-1), 1)
}

// CalculatePayout returns bet × (faces − 1) on a match and −bet otherwise.
func CalculatePayout(faces, prediction, result int, bet int64) int64 {
	return Odds(faces).Settle(bet, prediction == result)
}

// ParseRoll reads "d6 3" or "6 3".
func ParseRoll(args []string) (Roll, error) {
	if len(args) < 2 {
		return Roll{}, fmt.Errorf("%w: usage d6 <prediction>", game.ErrInvalidSelection)
	}

	faces, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(args[0]), "d"))
	if err != nil || !allowed(faces) {
		return Roll{}, fmt.Errorf("%w: %w", game.ErrInvalidSelection, ErrInvalidDice)
	}

	prediction, err := strconv.Atoi(args[1])
	if err != nil || prediction < 1 || prediction > faces {
		return Roll{}, fmt.Errorf("%w: %w", game.ErrInvalidSelection, ErrInvalidPrediction)
	}

	return Roll{Faces: faces, Prediction: prediction}, nil
}

func allowed(faces int) bool {
	for _, f := range AllowedFaces {
		if f == faces {
			return true
		}
	}
	return false
}

// Result of a roll.
type Result struct {
	Roll
	Landed int
	Payout int64
}

// Resolve rolls the die once.
func Resolve(wager int64, roll Roll, src rng.Source) Result {
	landed := src.IntN(roll.Faces) + 1
	return Result{
		Roll:   roll,
		Landed: landed,
		Payout: CalculatePayout(roll.Faces, roll.Prediction, landed, wager),
	}
}

// DiceGame is the dice catalog entry.
type DiceGame struct{}

// New creates the dice game.
func New() *DiceGame {
	return &DiceGame{}
}

func (d *DiceGame) Kind() game.Kind { return game.KindDice }
func (d *DiceGame) Name() string { return "Dice Roll" }
func (d *DiceGame) Wagered() bool { return true }

// Description returns a brief description of the game.
func (d *DiceGame) Description() string {
	return "Pick a die (d4-d20) and predict the face. A match pays (faces-1):1."
}

// Validate checks the die and prediction.
func (d *DiceGame) Validate(req game.Request) error {
	_, err := ParseRoll(req.Args)
	return err
}

// New rolls the die and returns the settled round.
func (d *DiceGame) New(req game.Request, src rng.Source) (game.Instance, error) {
	roll, err := ParseRoll(req.Args)
	if err != nil {
		return nil, err
	}

	res := Resolve(req.Wager, roll, src)
	return game.Resolved(
		game.NewSettlement(req, game.KindDice, res.Payout, describe(res)),
		View(res),
	), nil
}

// View renders a roll.
func View(res Result) game.View {
	emoji := "🎲"
	if res.Faces == 6 {
		emoji = faceEmojis[res.Landed]
	}
	return game.View{
		Kind:  game.KindDice,
		Title: fmt.Sprintf("🎲 D%d Roll Result", res.Faces),
		Phase: "rolled",
		Lines: []string{
			fmt.Sprintf("The d%d landed on: %d %s", res.Faces, res.Landed, emoji),
			fmt.Sprintf("You predicted: %d", res.Prediction),
		},
	}
}

func describe(res Result) string {
	if res.Payout > 0 {
		return fmt.Sprintf("Rolled %d on a d%d. You won %d coins!", res.Landed, res.Faces, res.Payout)
	}
	return fmt.Sprintf("Rolled %d on a d%d. You lost %d coins.", res.Landed, res.Faces, -res.Payout)
}
