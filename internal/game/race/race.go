// Package race implements the animated race. The player backs one racer
// before the start and the race runs on its own ticks.
package race

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"casino-bot/internal/game"
	"casino-bot/internal/game/payout"
	"casino-bot/internal/game/rng"
)

// Phase of a race.
type Phase string

const (
	PhaseCountdown Phase = "countdown"
	PhaseRunning   Phase = "running"
	PhaseFinished  Phase = "finished"
)

// Track and movement constants.
const (
	TrackLength = 10
	MoveChance  = 0.7
	Countdown   = 3
	// MaxTicks finishes a race with the current leader if nobody has
	// reached the line.
	MaxTicks = 500
)

// DefaultTick is the animation interval.
const DefaultTick = time.Second

// Category is a race type.
type Category struct {
	Name   string
	Emoji  string
	Racers int
}

// Odds pays racers-1 to 1.
func (c Category) Odds() payout.Odds {
	return payout.To(int64(c.Racers-1), 1)
}

var (
	Turtle   = Category{"Turtle", "🐢", 3}
	Dog      = Category{"Dog", "🐕", 5}
	Horse    = Category{"Horse", "🏇", 8}
	Dinosaur = Category{"Dinosaur", "🦖", 12}
)

// Categories lists every race type.
var Categories = []Category{Turtle, Dog, Horse, Dinosaur}

// ParseCategory accepts full names and t/d/h/di.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "turtle", "t":
		return Turtle, true
	case "dog", "d":
		return Dog, true
	case "horse", "h":
		return Horse, true
	case "dinosaur", "di":
		return Dinosaur, true
	}
	return Category{}, false
}

// Selection is a category plus the backed racer (1-based).
type Selection struct {
	Category Category
	Pick     int
}

// ParseSelection reads "<category> <racer>".
func ParseSelection(req game.Request) (Selection, error) {
	cat, ok := ParseCategory(req.Arg(0))
	if !ok {
		return Selection{}, fmt.Errorf("%w: unknown race type %q (turtle, dog, horse, dinosaur)", game.ErrInvalidSelection, req.Arg(0))
	}
	pick, err := strconv.Atoi(req.Arg(1))
	if err != nil || pick < 1 || pick > cat.Racers {
		return Selection{}, fmt.Errorf("%w: pick a racer from 1 to %d", game.ErrInvalidSelection, cat.Racers)
	}
	return Selection{Category: cat, Pick: pick}, nil
}

// Race is one running race.
type Race struct {
	req       game.Request
	sel       Selection
	tick      time.Duration
	src       rng.Source
	phase     Phase
	countdown int
	ticks     int
	positions []int
	winner    int // 1-based
	settle    game.Settlement
}

// Start lines the racers up.
func Start(req game.Request, sel Selection, tick time.Duration, src rng.Source) *Race {
	return &Race{
		req:       req,
		sel:       sel,
		tick:      tick,
		src:       src,
		phase:     PhaseCountdown,
		countdown: Countdown,
		positions: make([]int, sel.Category.Racers),
	}
}

// Phase returns the current phase.
func (r *Race) Phase() Phase { return r.phase }

// Positions returns each racer's distance.
func (r *Race) Positions() []int { return r.positions }

// Winner returns the winning racer, 0 until finished.
func (r *Race) Winner() int { return r.winner }

func (r *Race) Terminal() bool { return r.phase == PhaseFinished }
func (r *Race) Settlement() game.Settlement { return r.settle }

// Wait is the animation interval. Races only ever advance by ticks.
func (r *Race) Wait() (time.Duration, game.Decision) {
	return r.tick, game.Decision{Action: game.ActionTick}
}

// Apply advances the countdown or the race by one tick.
func (r *Race) Apply(d game.Decision) error {
	if r.phase == PhaseFinished {
		return game.ErrGameOver
	}
	if d.Action != game.ActionTick {
		return fmt.Errorf("%w: the race runs on its own", game.ErrInvalidDecision)
	}

	if r.phase == PhaseCountdown {
		r.countdown--
		if r.countdown <= 0 {
			r.phase = PhaseRunning
		}
		return nil
	}

	r.ticks++
	for i := range r.positions {
		if rng.Chance(r.src, MoveChance) {
			r.positions[i] += r.src.IntN(2) + 1
		}
	}
	if leader, pos := Leader(r.positions); pos >= TrackLength || r.ticks >= MaxTicks {
		r.finish(leader)
	}
	return nil
}

// Leader returns the 1-based racer furthest ahead and its position. Equal
// positions go to the lowest racer number.
func Leader(positions []int) (racer, pos int) {
	best := 0
	for i, p := range positions {
		if p > positions[best] {
			best = i
		}
	}
	return best + 1, positions[best]
}

func (r *Race) finish(winner int) {
	r.phase = PhaseFinished
	r.winner = winner
	won := winner == r.sel.Pick
	desc := fmt.Sprintf("%s race won by #%d, you backed #%d.", r.sel.Category.Name, winner, r.sel.Pick)
	r.settle = game.NewSettlement(r.req, game.KindRace, r.sel.Category.Odds().Settle(r.req.Wager, won), desc)
}

func (r *Race) track() []string {
	lines := make([]string, len(r.positions))
	for i, p := range r.positions {
		cells := []string{"🏁"}
		for j := 1; j < TrackLength; j++ {
			cells = append(cells, "─")
		}
		if p >= TrackLength {
			p = TrackLength - 1
		}
		cells[p] = r.sel.Category.Emoji
		line := fmt.Sprintf("#%d: %s", i+1, strings.Join(cells, ""))
		if i+1 == r.sel.Pick {
			line += " ⭐"
		}
		lines[i] = line
	}
	return lines
}

// View renders the race.
func (r *Race) View() game.View {
	cat := r.sel.Category
	v := game.View{Kind: game.KindRace, Phase: string(r.phase)}

	switch r.phase {
	case PhaseCountdown:
		v.Title = fmt.Sprintf("🏁 %s Race", cat.Name)
		v.Lines = []string{
			fmt.Sprintf("Racers: %d %s", cat.Racers, cat.Emoji),
			fmt.Sprintf("Your Pick: Racer #%d", r.sel.Pick),
			fmt.Sprintf("Odds: %s", cat.Odds()),
			fmt.Sprintf("Race starting in %d...", r.countdown),
		}
	case PhaseRunning:
		v.Title = fmt.Sprintf("🏁 %s Race - In Progress", cat.Name)
		v.Lines = r.track()
	case PhaseFinished:
		v.Title = fmt.Sprintf("🏁 %s Race - Results", cat.Name)
		v.Lines = append(r.track(),
			fmt.Sprintf("🏆 Winner: Racer #%d %s", r.winner, cat.Emoji),
			fmt.Sprintf("Your pick: Racer #%d", r.sel.Pick),
		)
	}
	return v
}

// Game is the race catalog entry.
type Game struct {
	tick time.Duration
}

// New creates the race game. A non-positive tick uses DefaultTick.
func New(tick time.Duration) *Game {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Game{tick: tick}
}

func (g *Game) Kind() game.Kind { return game.KindRace }
func (g *Game) Name() string { return "Race" }
func (g *Game) Wagered() bool { return true }

// Description returns a brief description of the game.
func (g *Game) Description() string {
	return "Back a racer: turtle (3), dog (5), horse (8) or dinosaur (12). A winning pick pays racers-1 to 1."
}

// Validate checks the category and racer number.
func (g *Game) Validate(req game.Request) error {
	_, err := ParseSelection(req)
	return err
}

// New lines up the race.
func (g *Game) New(req game.Request, src rng.Source) (game.Instance, error) {
	sel, err := ParseSelection(req)
	if err != nil {
		return nil, err
	}
	return Start(req, sel, g.tick, src), nil
}
