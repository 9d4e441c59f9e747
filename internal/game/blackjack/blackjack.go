// Package blackjack implements a single-hand blackjack round against the
// dealer, dealt from a multi-deck shoe.
package blackjack

import (
	"fmt"
	"time"

	"casino-bot/internal/game"
	"casino-bot/internal/game/cards"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// Phase of a round.
type Phase string

const (
	PhaseDealing    Phase = "dealing"
	PhasePlayerTurn Phase = "player_turn"
	PhaseDealerTurn Phase = "dealer_turn"
	PhaseSettled    Phase = "settled"
)

// DealerStand is the total the dealer stops drawing at.
const DealerStand = 17

// Config controls the shoe and the turn timer.
type Config struct {
	Decks       int
	LowWater    int
	TurnTimeout time.Duration
}

// DefaultConfig is a 6-deck shoe reshuffled below 50 cards with a one-minute turn.
var DefaultConfig = Config{Decks: 6, LowWater: 50, TurnTimeout: 60 * time.Second}

// Odds by result.
var (
	NaturalOdds = payout.To(3, 2)
	WinOdds     = payout.To(3, 2)
	HardWinOdds = payout.To(2, 1)
)

// Round is one blackjack hand.
type Round struct {
	req    game.Request
	cfg    Config
	shoe   *cards.Shoe
	player []cards.Card
	dealer []cards.Card
	phase  Phase
	result string
	settle game.Settlement
}

// Deal starts a round from the given shoe. Cards go player, dealer, player,
// dealer. A dealer blackjack is checked before a player blackjack.
func Deal(req game.Request, cfg Config, shoe *cards.Shoe) *Round {
	r := &Round{req: req, cfg: cfg, shoe: shoe, phase: PhaseDealing}
	for i := 0; i < 2; i++ {
		r.player = append(r.player, shoe.Draw())
		r.dealer = append(r.dealer, shoe.Draw())
	}

	switch {
	case cards.IsBlackjack(r.dealer):
		r.finish("Dealer Blackjack - You lose!", payout.Loss(req.Wager))
	case cards.IsBlackjack(r.player):
		r.finish("Blackjack! You win!", NaturalOdds.Win(req.Wager))
	default:
		r.phase = PhasePlayerTurn
	}
	return r
}

// Phase returns the current phase.
func (r *Round) Phase() Phase { return r.phase }

// PlayerHand returns the player's cards.
func (r *Round) PlayerHand() []cards.Card { return r.player }

// DealerHand returns the dealer's cards, hole card included.
func (r *Round) DealerHand() []cards.Card { return r.dealer }

func (r *Round) Terminal() bool { return r.phase == PhaseSettled }
func (r *Round) Settlement() game.Settlement { return r.settle }

// Wait is the turn timer; an expired turn stands.
func (r *Round) Wait() (time.Duration, game.Decision) {
	return r.cfg.TurnTimeout, game.Decision{Action: game.ActionStand}
}

// Apply handles hit and stand.
func (r *Round) Apply(d game.Decision) error {
	if r.phase == PhaseSettled {
		return game.ErrGameOver
	}

	switch d.Action {
	case game.ActionHit:
		r.player = append(r.player, r.shoe.Draw())
		if cards.IsBust(r.player) {
			r.finish("Busted! You lose!", payout.Loss(r.req.Wager))
		}
		return nil
	case game.ActionStand:
		r.phase = PhaseDealerTurn
		for {
			v, _ := cards.HandValue(r.dealer)
			if v >= DealerStand {
				break
			}
			r.dealer = append(r.dealer, r.shoe.Draw())
		}
		r.compare()
		return nil
	default:
		return fmt.Errorf("%w: blackjack accepts hit or stand", game.ErrInvalidDecision)
	}
}

func (r *Round) winOdds() payout.Odds {
	if r.req.Mode == game.ModeHard {
		return HardWinOdds
	}
	return WinOdds
}

func (r *Round) compare() {
	pv, _ := cards.HandValue(r.player)
	dv, _ := cards.HandValue(r.dealer)
	switch {
	case dv > 21:
		r.finish("Dealer busted! You win!", r.winOdds().Win(r.req.Wager))
	case pv > dv:
		r.finish("You win!", r.winOdds().Win(r.req.Wager))
	case pv == dv:
		r.finish("Push (tie)!", payout.Push)
	default:
		r.finish("Dealer wins!", payout.Loss(r.req.Wager))
	}
}

func (r *Round) finish(result string, net int64) {
	r.phase = PhaseSettled
	r.result = result
	desc := fmt.Sprintf("%s You %s vs dealer %s.", result, cards.Format(r.player), cards.Format(r.dealer))
	r.settle = game.NewSettlement(r.req, game.KindBlackjack, net, desc)
}

// View renders the table. The dealer's hole card stays hidden until the
// round settles; hard mode hides every total.
func (r *Round) View() game.View {
	hard := r.req.Mode == game.ModeHard
	v := game.View{
		Kind:  game.KindBlackjack,
		Title: fmt.Sprintf("🃏 Blackjack (%s)", r.req.Mode),
		Phase: string(r.phase),
	}

	v.Lines = append(v.Lines, "👤 Your Hand: "+cards.Format(r.player))
	if !hard {
		v.Lines = append(v.Lines, "Value: "+handValueLabel(r.player))
	}

	if r.phase == PhaseSettled {
		v.Lines = append(v.Lines, "🎭 Dealer Hand: "+cards.Format(r.dealer))
		if !hard {
			dv, _ := cards.HandValue(r.dealer)
			v.Lines = append(v.Lines, fmt.Sprintf("Value: %d", dv))
		}
		v.Lines = append(v.Lines, fmt.Sprintf("🎯 %s Payout: %+d coins", r.result, r.settle.Payout))
		return v
	}

	v.Lines = append(v.Lines, "🎭 Dealer Hand: "+r.dealer[0].String()+" ?")
	if !hard {
		v.Lines = append(v.Lines, fmt.Sprintf("Visible Value: %d", r.dealer[0].BlackjackValue()))
	}
	v.Choices = []game.Choice{
		{Label: "🎯 Hit", Decision: game.Decision{Action: game.ActionHit}},
		{Label: "✋ Stand", Decision: game.Decision{Action: game.ActionStand}},
	}
	return v
}

// handValueLabel shows "hard (soft)" while an ace still counts 11.
func handValueLabel(hand []cards.Card) string {
	total, soft := cards.HandValue(hand)
	if soft && total != 21 {
		if hard := cards.HardValue(hand); hard != total {
			return fmt.Sprintf("%d (%d)", hard, total)
		}
	}
	return fmt.Sprintf("%d", total)
}

// Game is the blackjack catalog entry.
type Game struct {
	cfg Config
}

// New creates the blackjack game. Zero fields fall back to DefaultConfig.
func New(cfg Config) *Game {
	if cfg.Decks <= 0 {
		cfg.Decks = DefaultConfig.Decks
	}
	if cfg.LowWater <= 0 {
		cfg.LowWater = DefaultConfig.LowWater
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = DefaultConfig.TurnTimeout
	}
	return &Game{cfg: cfg}
}

func (g *Game) Kind() game.Kind { return game.KindBlackjack }
func (g *Game) Name() string { return "Blackjack" }
func (g *Game) Wagered() bool { return true }
func (g *Game) Validate(game.Request) error { return nil }

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Beat the dealer without going over 21. Wins pay 3:2 (2:1 in hard mode), blackjack pays 3:2."
}

// New deals a round from a freshly shuffled shoe.
func (g *Game) New(req game.Request, src rng.Source) (game.Instance, error) {
	return Deal(req, g.cfg, cards.NewShoe(g.cfg.Decks, g.cfg.LowWater, src)), nil
}
