package game

import "errors"

// Session and game errors.
var (
	ErrSessionConflict  = errors.New("player already has an active game")
	ErrInvalidSelection = errors.New("invalid game selection")
	ErrInvalidDecision  = errors.New("decision not accepted in the current state")
	ErrStaleSession     = errors.New("session is not active")
	ErrInternalFault    = errors.New("internal game fault")
	ErrGameOver         = errors.New("game is already over")
	ErrUnknownGame      = errors.New("unknown game")
)
