// Package session enforces the one-active-game-per-player rule.
// Every entry point that starts a game must acquire a slot here first.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"casino-bot/internal/game"
)

// Session is a player's exclusive claim on playing a game.
type Session struct {
	PlayerID  int64     `json:"player_id"`
	Kind      game.Kind `json:"kind"`
	Token     uuid.UUID `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry is the atomic per-player exclusion gate.
type Registry interface {
	// TryAcquire claims the player's slot. It returns false without blocking
	// when the player already holds a session.
	TryAcquire(ctx context.Context, playerID int64, kind game.Kind) (Session, bool, error)

	// Release frees the player's slot if it is still held by token.
	// Releasing a free slot, or one now held by a newer session, is a no-op.
	Release(ctx context.Context, playerID int64, token uuid.UUID) error

	// Refresh extends the lifetime of the session held by token. It returns
	// false when the slot is no longer held by that session.
	Refresh(ctx context.Context, playerID int64, token uuid.UUID) (bool, error)

	// Active returns the player's current session, if any.
	Active(ctx context.Context, playerID int64) (Session, bool, error)
}

func newSession(playerID int64, kind game.Kind) Session {
	return Session{
		PlayerID:  playerID,
		Kind:      kind,
		Token:     uuid.New(),
		CreatedAt: time.Now(),
	}
}
