package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"casino-bot/internal/game"
)

// MemoryRegistry keeps sessions in process memory.
type MemoryRegistry struct {
	sessions sync.Map // map[int64]Session
}

// NewMemoryRegistry creates an empty in-process registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{}
}

// TryAcquire stores a new session unless one exists. LoadOrStore makes the
// check and the store a single atomic step.
func (r *MemoryRegistry) TryAcquire(_ context.Context, playerID int64, kind game.Kind) (Session, bool, error) {
	s := newSession(playerID, kind)
	if _, loaded := r.sessions.LoadOrStore(playerID, s); loaded {
		return Session{}, false, nil
	}
	return s, true, nil
}

// Release removes the player's session if token still owns it.
func (r *MemoryRegistry) Release(_ context.Context, playerID int64, token uuid.UUID) error {
	v, ok := r.sessions.Load(playerID)
	if !ok || v.(Session).Token != token {
		return nil
	}
	r.sessions.CompareAndDelete(playerID, v)
	return nil
}

// Refresh reports whether token still owns the slot. In-memory sessions do
// not expire.
func (r *MemoryRegistry) Refresh(_ context.Context, playerID int64, token uuid.UUID) (bool, error) {
	v, ok := r.sessions.Load(playerID)
	return ok && v.(Session).Token == token, nil
}

// Active returns the player's session.
func (r *MemoryRegistry) Active(_ context.Context, playerID int64) (Session, bool, error) {
	v, ok := r.sessions.Load(playerID)
	if !ok {
		return Session{}, false, nil
	}
	return v.(Session), true, nil
}
