// Package hilo implements higher-or-lower, a free streak game: each correct
// call scores a point and cashing out pays 100 coins per point.
package hilo

import (
	"fmt"
	"time"

	"casino-bot/internal/game"
	"casino-bot/internal/game/cards"
	"casino-bot/internal/game/rng"
)

// Phase of a round.
type Phase string

const (
	PhaseAwaitingGuess Phase = "awaiting_guess"
	PhaseOver          Phase = "over"
)

// PointValue is the payout per point.
const PointValue = 100

// reshuffleBelow rebuilds the deck once fewer cards than this remain.
const reshuffleBelow = 2

// DefaultTimeout is how long a guess may take before the round cashes out.
const DefaultTimeout = 60 * time.Second

// Round is one higher-or-lower streak.
type Round struct {
	req     game.Request
	timeout time.Duration
	shoe    *cards.Shoe
	current cards.Card
	last    *cards.Card // the card that ended the streak
	score   int
	phase   Phase
	settle  game.Settlement
}

// Begin draws the first card.
func Begin(req game.Request, timeout time.Duration, shoe *cards.Shoe) *Round {
	return &Round{
		req:     req,
		timeout: timeout,
		shoe:    shoe,
		current: shoe.Draw(),
		phase:   PhaseAwaitingGuess,
	}
}

// Score returns the running score.
func (r *Round) Score() int { return r.score }

// Current returns the card to beat.
func (r *Round) Current() cards.Card { return r.current }

func (r *Round) Terminal() bool { return r.phase == PhaseOver }
func (r *Round) Settlement() game.Settlement { return r.settle }

// Wait is the guess timer; an unanswered guess cashes out.
func (r *Round) Wait() (time.Duration, game.Decision) {
	return r.timeout, game.Decision{Action: game.ActionCashOut}
}

// Apply handles higher, lower and cash out. A tie counts as correct but
// does not score.
func (r *Round) Apply(d game.Decision) error {
	if r.phase == PhaseOver {
		return game.ErrGameOver
	}

	switch d.Action {
	case game.ActionCashOut:
		r.end(fmt.Sprintf("Cashed out with a score of %d.", r.score))
		return nil
	case game.ActionHigher, game.ActionLower:
	default:
		return fmt.Errorf("%w: guess higher or lower, or cash out", game.ErrInvalidDecision)
	}

	next := r.shoe.Draw()
	cur, nv := r.current.Rank, next.Rank
	switch {
	case nv == cur:
	case (d.Action == game.ActionHigher) == (nv > cur):
		r.score++
	default:
		r.last = &next
		r.end(fmt.Sprintf("%s after %s. Final score %d.", next, r.current, r.score))
		return nil
	}
	r.current = next
	return nil
}

func (r *Round) end(desc string) {
	r.phase = PhaseOver
	s := game.NewSettlement(r.req, game.KindHiLo, int64(r.score)*PointValue, desc)
	s.Outcome = game.ScoreOutcome(r.score)
	r.settle = s
}

// View renders the streak.
func (r *Round) View() game.View {
	v := game.View{
		Kind:  game.KindHiLo,
		Title: "🃏 Higher or Lower",
		Phase: string(r.phase),
		Lines: []string{
			"Current Card: " + r.current.String(),
			fmt.Sprintf("Score: %d", r.score),
		},
	}

	if r.phase == PhaseOver {
		if r.last != nil {
			v.Lines = append(v.Lines, "Next Card: "+r.last.String())
		}
		v.Lines = append(v.Lines,
			fmt.Sprintf("Final Score: %d", r.score),
			fmt.Sprintf("Payout: %d coins", r.score*PointValue),
		)
		return v
	}

	v.Lines = append(v.Lines, "Will the next card be higher or lower?")
	v.Choices = []game.Choice{
		{Label: "⬆️ Higher", Decision: game.Decision{Action: game.ActionHigher}},
		{Label: "⬇️ Lower", Decision: game.Decision{Action: game.ActionLower}},
		{Label: "💰 Cash Out", Decision: game.Decision{Action: game.ActionCashOut}},
	}
	return v
}

// Game is the higher-or-lower catalog entry.
type Game struct {
	timeout time.Duration
}

// New creates the game. A non-positive timeout uses DefaultTimeout.
func New(timeout time.Duration) *Game {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Game{timeout: timeout}
}

func (g *Game) Kind() game.Kind { return game.KindHiLo }
func (g *Game) Name() string { return "Higher or Lower" }
func (g *Game) Wagered() bool { return false }

// Validate rejects hard mode; higher-or-lower has a single rule set.
func (g *Game) Validate(req game.Request) error {
	if req.Mode == game.ModeHard {
		return fmt.Errorf("%w: higher or lower has no hard mode", game.ErrInvalidSelection)
	}
	return nil
}

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Free to play. Guess whether the next card is higher or lower; cash out for 100 coins per point."
}

// New shuffles a single deck and draws the first card.
func (g *Game) New(req game.Request, src rng.Source) (game.Instance, error) {
	req.Wager = 0
	return Begin(req, g.timeout, cards.NewShoe(1, reshuffleBelow, src)), nil
}
