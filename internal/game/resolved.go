package game

import "time"

// resolved wraps the result of a single-shot game.
type resolved struct {
	view       View
	settlement Settlement
}

// Resolved returns an already terminal Instance.
func Resolved(s Settlement, v View) Instance {
	return &resolved{view: v, settlement: s}
}

func (r *resolved) View() View { return r.view }
func (r *resolved) Apply(Decision) error { return ErrGameOver }
func (r *resolved) Terminal() bool { return true }
func (r *resolved) Settlement() Settlement { return r.settlement }
func (r *resolved) Wait() (time.Duration, Decision) { return 0, Decision{} }
