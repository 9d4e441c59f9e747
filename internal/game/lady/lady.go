// Package lady implements find-the-lady: remember where the queen sits,
// watch the shuffle, then pick her out.
package lady

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"casino-bot/internal/game"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// Phase of a round.
type Phase string

const (
	PhaseShown        Phase = "shown"
	PhaseShuffled     Phase = "shuffled"
	PhaseAwaitingPick Phase = "awaiting_pick"
	PhaseRevealed     Phase = "revealed"
)

// Card counts per mode.
const (
	NormalCards = 3
	HardCards   = 5
)

// Config holds the per-phase waits.
type Config struct {
	Show     time.Duration
	Shuffle  time.Duration
	PickWait time.Duration
}

// DefaultConfig shows for 3s, shuffles for 2s and waits 30s for a pick.
var DefaultConfig = Config{Show: 3 * time.Second, Shuffle: 2 * time.Second, PickWait: 30 * time.Second}

const (
	lady   = "👸"
	king   = "👑"
	faceDn = "🂠"
)

// Round is one find-the-lady round.
type Round struct {
	req    game.Request
	cfg    Config
	count  int
	target int // 0-based
	picked int // 0-based, -1 until picked
	phase  Phase
	settle game.Settlement
}

// Deal places the lady at a random position among count cards.
func Deal(req game.Request, cfg Config, count int, src rng.Source) *Round {
	return &Round{
		req:    req,
		cfg:    cfg,
		count:  count,
		target: src.IntN(count),
		picked: -1,
		phase:  PhaseShown,
	}
}

// CardCount returns k for the mode.
func CardCount(m game.Mode) int {
	if m == game.ModeHard {
		return HardCards
	}
	return NormalCards
}

// Odds pays k-1 to 1.
func Odds(count int) payout.Odds {
	return payout.To(int64(count-1), 1)
}

// Phase returns the current phase.
func (r *Round) Phase() Phase { return r.phase }

// Target returns the lady's 1-based position.
func (r *Round) Target() int { return r.target + 1 }

func (r *Round) Terminal() bool { return r.phase == PhaseRevealed }
func (r *Round) Settlement() game.Settlement { return r.settle }

// Wait returns the phase timer. The show and shuffle phases advance on
// their own; an expired pick is forfeited.
func (r *Round) Wait() (time.Duration, game.Decision) {
	switch r.phase {
	case PhaseShown:
		return r.cfg.Show, game.Decision{Action: game.ActionTick}
	case PhaseShuffled:
		return r.cfg.Shuffle, game.Decision{Action: game.ActionTick}
	default:
		return r.cfg.PickWait, game.Decision{Action: game.ActionForfeit}
	}
}

// Apply advances the animation or settles a pick.
func (r *Round) Apply(d game.Decision) error {
	if r.phase == PhaseRevealed {
		return game.ErrGameOver
	}

	switch {
	case d.Action == game.ActionTick && r.phase == PhaseShown:
		r.phase = PhaseShuffled
	case d.Action == game.ActionTick && r.phase == PhaseShuffled:
		r.phase = PhaseAwaitingPick
	case d.Action == game.ActionPick && r.phase == PhaseAwaitingPick:
		if d.Value < 1 || d.Value > r.count {
			return fmt.Errorf("%w: pick a card from 1 to %d", game.ErrInvalidDecision, r.count)
		}
		r.picked = d.Value - 1
		won := r.picked == r.target
		desc := fmt.Sprintf("Picked %d, the lady was at %d.", d.Value, r.Target())
		r.reveal(Odds(r.count).Settle(r.req.Wager, won), desc)
	case d.Action == game.ActionForfeit && r.phase == PhaseAwaitingPick:
		r.reveal(payout.Loss(r.req.Wager), fmt.Sprintf("Time's up. The lady was at %d.", r.Target()))
	default:
		return fmt.Errorf("%w: %s during %s", game.ErrInvalidDecision, d.Action, r.phase)
	}
	return nil
}

func (r *Round) reveal(net int64, desc string) {
	r.phase = PhaseRevealed
	r.settle = game.NewSettlement(r.req, game.KindLady, net, desc)
}

func (r *Round) row(face func(i int) string) string {
	parts := make([]string, r.count)
	for i := range parts {
		parts[i] = face(i)
	}
	return strings.Join(parts, " ")
}

func (r *Round) numbers() string {
	return r.row(func(i int) string { return strconv.Itoa(i + 1) })
}

func (r *Round) faces() string {
	return r.row(func(i int) string {
		if i == r.target {
			return lady
		}
		return king
	})
}

// View renders the table for the current phase.
func (r *Round) View() game.View {
	v := game.View{
		Kind:  game.KindLady,
		Title: fmt.Sprintf("🃏 Find the Lady (%s)", r.req.Mode),
		Phase: string(r.phase),
	}

	switch r.phase {
	case PhaseShown:
		v.Lines = []string{"Remember where the lady is!", r.faces(), fmt.Sprintf("%d cards, %s", r.count, Odds(r.count))}
	case PhaseShuffled:
		v.Lines = []string{"🔄 Shuffling cards... 🔄", "Watch carefully!"}
	case PhaseAwaitingPick:
		v.Lines = []string{"Find the lady among the kings!", r.row(func(int) string { return faceDn }), r.numbers()}
		for i := 1; i <= r.count; i++ {
			v.Choices = append(v.Choices, game.Choice{
				Label:    strconv.Itoa(i),
				Decision: game.Decision{Action: game.ActionPick, Value: i},
			})
		}
	case PhaseRevealed:
		v.Title = "🃏 Find the Lady - Result"
		v.Lines = []string{r.faces(), r.numbers(), fmt.Sprintf("The lady was in position %d!", r.Target())}
		switch {
		case r.picked < 0:
			v.Lines = append(v.Lines, "⏰ Time's up! You didn't choose in time.")
		case r.settle.Payout > 0:
			v.Lines = append(v.Lines, fmt.Sprintf("🎉 You found her! You won %d coins!", r.settle.Payout))
		default:
			v.Lines = append(v.Lines, fmt.Sprintf("💔 Wrong card! You lost %d coins!", -r.settle.Payout))
		}
	}
	return v
}

// Game is the find-the-lady catalog entry.
type Game struct {
	cfg Config
}

// New creates the game. Zero fields fall back to DefaultConfig.
func New(cfg Config) *Game {
	if cfg.Show <= 0 {
		cfg.Show = DefaultConfig.Show
	}
	if cfg.Shuffle <= 0 {
		cfg.Shuffle = DefaultConfig.Shuffle
	}
	if cfg.PickWait <= 0 {
		cfg.PickWait = DefaultConfig.PickWait
	}
	return &Game{cfg: cfg}
}

func (g *Game) Kind() game.Kind { return game.KindLady }
func (g *Game) Name() string { return "Find the Lady" }
func (g *Game) Wagered() bool { return true }
func (g *Game) Validate(game.Request) error { return nil }

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Follow the queen through the shuffle. 3 cards pay 2:1, 5 cards (hard) pay 4:1."
}

// New deals the cards.
func (g *Game) New(req game.Request, src rng.Source) (game.Instance, error) {
	return Deal(req, g.cfg, CardCount(req.Mode), src), nil
}
