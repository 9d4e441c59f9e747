// Package crash implements the escalating-multiplier game.
package crash

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"casino-bot/internal/game"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// Phase of a round.
type Phase string

const (
	PhaseRunning   Phase = "running"
	PhaseCashedOut Phase = "cashed_out"
	PhaseCrashed   Phase = "crashed"
)

// Config controls tick timing and growth.
type Config struct {
	Tick      time.Duration
	HardTick  time.Duration
	Ceiling   time.Duration
	CrashProb float64
}

// DefaultConfig ticks every 2s (1s hard) and forces a crash after two minutes.
var DefaultConfig = Config{
	Tick:      2 * time.Second,
	HardTick:  time.Second,
	Ceiling:   2 * time.Minute,
	CrashProb: 0.1,
}

type growth struct{ lo, hi float64 }

var (
	normalGrowth = growth{0.05, 0.15}
	hardGrowth   = growth{0.1, 0.3}
)

// Round is one crash round.
type Round struct {
	req        game.Request
	cfg        Config
	src        rng.Source
	phase      Phase
	multiplier decimal.Decimal
	elapsed    time.Duration
	ticks      int
	settle     game.Settlement
}

// Start begins a round at 1.00x.
func Start(req game.Request, cfg Config, src rng.Source) *Round {
	return &Round{
		req:        req,
		cfg:        cfg,
		src:        src,
		phase:      PhaseRunning,
		multiplier: decimal.NewFromInt(1),
	}
}

// Multiplier returns the current multiplier.
func (r *Round) Multiplier() decimal.Decimal { return r.multiplier }

// Phase returns the current phase.
func (r *Round) Phase() Phase { return r.phase }

func (r *Round) Terminal() bool { return r.phase != PhaseRunning }
func (r *Round) Settlement() game.Settlement { return r.settle }

func (r *Round) hard() bool { return r.req.Mode == game.ModeHard }

func (r *Round) interval() time.Duration {
	if r.hard() {
		return r.cfg.HardTick
	}
	return r.cfg.Tick
}

// Wait is the tick interval; the default decision advances the round.
func (r *Round) Wait() (time.Duration, game.Decision) {
	return r.interval(), game.Decision{Action: game.ActionTick}
}

// Apply handles ticks and cash-outs.
func (r *Round) Apply(d game.Decision) error {
	if r.Terminal() {
		return game.ErrGameOver
	}

	switch d.Action {
	case game.ActionTick:
		r.tick()
		return nil
	case game.ActionCashOut:
		net := payout.CashOut(r.req.Wager, r.multiplier)
		r.phase = PhaseCashedOut
		r.settle = game.NewSettlement(r.req, game.KindCrash, net,
			fmt.Sprintf("Cashed out at %sx", r.multiplier.StringFixed(2)))
		return nil
	default:
		return fmt.Errorf("%w: crash accepts cash out only", game.ErrInvalidDecision)
	}
}

func (r *Round) tick() {
	r.ticks++
	r.elapsed += r.interval()
	if r.elapsed > r.cfg.Ceiling || rng.Chance(r.src, r.cfg.CrashProb) {
		r.phase = PhaseCrashed
		r.settle = game.NewSettlement(r.req, game.KindCrash, payout.Loss(r.req.Wager),
			fmt.Sprintf("Crashed at %sx", r.multiplier.StringFixed(2)))
		return
	}

	g := normalGrowth
	if r.hard() {
		g = hardGrowth
	}
	step := decimal.NewFromFloat(rng.Uniform(r.src, g.lo, g.hi)).Round(4)
	r.multiplier = r.multiplier.Add(step)
}

// View renders the round. Hard mode hides the multiplier until the end.
func (r *Round) View() game.View {
	v := game.View{Kind: game.KindCrash, Phase: string(r.phase)}
	m := r.multiplier.StringFixed(2) + "x"

	switch r.phase {
	case PhaseCashedOut:
		v.Title = "🛑 Cashed Out!"
		v.Lines = []string{
			fmt.Sprintf("You cashed out at %s!", m),
			fmt.Sprintf("💰 Winnings: %+d coins", r.settle.Payout),
		}
	case PhaseCrashed:
		v.Title = "💥 CRASHED!"
		v.Lines = []string{
			fmt.Sprintf("The game crashed at %s!", m),
			fmt.Sprintf("💸 Loss: -%d coins", r.req.Wager),
		}
	default:
		if r.hard() {
			v.Title = "💥 Crash Game (Hard Mode)"
			v.Lines = []string{"Multiplier and crash status are hidden!", "Cash out before it's too late."}
		} else {
			v.Title = "💥 Crash Game"
			v.Lines = []string{
				fmt.Sprintf("Current multiplier: %s", m),
				fmt.Sprintf("💡 %d%% chance to crash on each increase", int(r.cfg.CrashProb*100)),
			}
		}
		v.Choices = []game.Choice{{Label: "🛑 Cash Out", Decision: game.Decision{Action: game.ActionCashOut}}}
	}
	return v
}

// Game is the crash catalog entry.
type Game struct {
	cfg Config
}

// New creates the crash game. Zero fields fall back to DefaultConfig.
func New(cfg Config) *Game {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultConfig.Tick
	}
	if cfg.HardTick <= 0 {
		cfg.HardTick = DefaultConfig.HardTick
	}
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = DefaultConfig.Ceiling
	}
	if cfg.CrashProb <= 0 || cfg.CrashProb >= 1 {
		cfg.CrashProb = DefaultConfig.CrashProb
	}
	return &Game{cfg: cfg}
}

func (g *Game) Kind() game.Kind { return game.KindCrash }
func (g *Game) Name() string { return "Crash" }
func (g *Game) Wagered() bool { return true }
func (g *Game) Validate(game.Request) error { return nil }

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "The multiplier climbs until it crashes. Cash out first to win floor(bet x multiplier) - bet."
}

// New starts a round.
func (g *Game) New(req game.Request, src rng.Source) (game.Instance, error) {
	return Start(req, g.cfg, src), nil
}
