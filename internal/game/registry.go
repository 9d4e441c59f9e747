package game

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps game kinds to their catalog entries.
type Registry struct {
	games map[Kind]Game
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[Kind]Game),
	}
}

// Register adds a game, replacing any game with the same kind.
func (r *Registry) Register(g Game) error {
	if g == nil {
		return fmt.Errorf("cannot register nil game")
	}
	if g.Kind() == "" {
		return fmt.Errorf("game kind cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.Kind()] = g
	return nil
}

// Get retrieves a game by kind.
func (r *Registry) Get(kind Kind) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[kind]
	return g, ok
}

// List returns all registered games ordered by kind.
func (r *Registry) List() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Kind() < games[j].Kind() })
	return games
}

// Kinds returns all registered kinds as strings, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.games))
	for k := range r.games {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

// Count returns the number of registered games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
