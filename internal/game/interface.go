// Package game defines the game contracts shared by every game in the casino:
// single-shot outcome generators and multi-turn state machines both surface
// as an Instance that the session orchestrator drives to a Settlement.
package game

import (
	"fmt"
	"strings"
	"time"

	"casino-bot/internal/game/rng"
)

// Kind identifies a game in the fixed catalog.
type Kind string

// Game kinds.
const (
	KindCoinflip  Kind = "coinflip"
	KindDice      Kind = "dice"
	KindSlots     Kind = "slots"
	KindRoulette  Kind = "roulette"
	KindSevens    Kind = "sevens"
	KindRPS       Kind = "rps"
	KindGamble    Kind = "gamble"
	KindBlackjack Kind = "blackjack"
	KindCrash     Kind = "crash"
	KindLady      Kind = "findthelady"
	KindHiLo      Kind = "higherorlower"
	KindRace      Kind = "race"
)

// Mode selects the rule variant of a game.
type Mode int

const (
	ModeNormal Mode = iota
	ModeHard
)

// ParseMode reads a trailing mode argument ("hard", "easy" or "normal").
// Single letters are never modes; "h" is a coinflip side.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hard":
		return ModeHard, true
	case "easy", "normal":
		return ModeNormal, true
	}
	return ModeNormal, false
}

func (m Mode) String() string {
	if m == ModeHard {
		return "Hard Mode"
	}
	return "Easy Mode"
}

// Action names a decision event delivered to a running game.
type Action string

const (
	ActionHit     Action = "hit"
	ActionStand   Action = "stand"
	ActionCashOut Action = "cashout"
	ActionPick    Action = "pick"
	ActionHigher  Action = "higher"
	ActionLower   Action = "lower"
	ActionForfeit Action = "forfeit"
	// ActionTick advances timer-driven games. It is only ever fired by the
	// orchestrator as a default decision.
	ActionTick Action = "tick"
)

// Decision is a single event applied to an Instance. Default decisions fired
// on timeout use the same type and code path as player decisions.
type Decision struct {
	Action Action
	Value  int
}

// Request carries everything a game needs to construct an instance.
type Request struct {
	PlayerID int64
	Wager    int64
	Mode     Mode
	Args     []string // game-specific selection, e.g. "heads" or "d6 3"
}

// Arg returns the i-th selection argument, lowercased, or "" if absent.
func (r Request) Arg(i int) string {
	if i < 0 || i >= len(r.Args) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(r.Args[i]))
}

// Choice is one renderable decision button.
type Choice struct {
	Label    string
	Decision Decision
}

// View is a renderable snapshot of an instance.
type View struct {
	Kind    Kind
	Title   string
	Phase   string
	Lines   []string
	Choices []Choice
}

// Text joins the view into a plain-text message body.
func (v View) Text() string {
	var b strings.Builder
	if v.Title != "" {
		b.WriteString(v.Title)
	}
	for _, l := range v.Lines {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l)
	}
	return b.String()
}

// Outcome tags a settled round for statistics.
type Outcome string

const (
	OutcomeWin   Outcome = "win"
	OutcomeLoss  Outcome = "loss"
	OutcomePush  Outcome = "push"
	OutcomeFault Outcome = "fault"
)

// ScoreOutcome tags a score-based round (higher or lower).
func ScoreOutcome(score int) Outcome {
	return Outcome(fmt.Sprintf("score_%d", score))
}

// Settlement is the final signed result of a session.
type Settlement struct {
	PlayerID    int64
	Kind        Kind
	Wager       int64
	Payout      int64 // net: negative = loss, zero = push, positive = win
	Outcome     Outcome
	Description string
}

// NewSettlement builds a settlement whose outcome tag follows the payout sign.
func NewSettlement(req Request, kind Kind, payout int64, description string) Settlement {
	outcome := OutcomePush
	switch {
	case payout > 0:
		outcome = OutcomeWin
	case payout < 0:
		outcome = OutcomeLoss
	}
	return Settlement{
		PlayerID:    req.PlayerID,
		Kind:        kind,
		Wager:       req.Wager,
		Payout:      payout,
		Outcome:     outcome,
		Description: description,
	}
}

// FaultSettlement settles a session that failed internally as a full loss.
func FaultSettlement(req Request, kind Kind, cause error) Settlement {
	desc := "Game aborted by an internal error; the wager is lost."
	if cause != nil {
		desc = fmt.Sprintf("Game aborted by an internal error (%v); the wager is lost.", cause)
	}
	return Settlement{
		PlayerID:    req.PlayerID,
		Kind:        kind,
		Wager:       req.Wager,
		Payout:      -req.Wager,
		Outcome:     OutcomeFault,
		Description: desc,
	}
}

// Instance is a running game. Single-shot games return instances that are
// already terminal; state machines advance through Apply.
type Instance interface {
	// View returns the current renderable snapshot.
	View() View

	// Apply advances the instance by one decision. It returns ErrGameOver once
	// terminal and ErrInvalidDecision for decisions the current state does not
	// accept; neither mutates the instance.
	Apply(d Decision) error

	// Terminal reports whether the instance has produced its settlement.
	Terminal() bool

	// Settlement is valid only once Terminal returns true.
	Settlement() Settlement

	// Wait returns how long the current decision point stays open and the
	// decision applied when it expires.
	Wait() (time.Duration, Decision)
}

// Game describes one entry of the catalog.
type Game interface {
	Kind() Kind
	Name() string
	Description() string

	// Wagered is false for games played without a stake.
	Wagered() bool

	// Validate rejects bad selections with ErrInvalidSelection. It must not
	// draw randomness.
	Validate(req Request) error

	// New constructs an instance using src for every random draw.
	New(req Request, src rng.Source) (Instance, error)
}
