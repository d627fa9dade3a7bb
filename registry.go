package arena

import "sync"

// registry maps game ids to live games. Each entry has a single writer,
// the runner that owns it, and any number of readers.
type registry struct {
	mu    sync.RWMutex
	games map[string]*entry
}

func newRegistry() *registry {
	return &registry{games: make(map[string]*entry)}
}

func (r *registry) add(g *Game) *entry {
	e := &entry{game: g, done: make(chan struct{})}
	r.mu.Lock()
	r.games[g.ID] = e
	r.mu.Unlock()
	return e
}

func (r *registry) get(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.games[id]
	return e, ok
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	delete(r.games, id)
	r.mu.Unlock()
}

// snapshots returns copies of all registered games.
func (r *registry) snapshots() []*Game {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.games))
	for _, e := range r.games {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]*Game, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.snapshot())
	}
	return out
}

// entry guards one game. done is closed once the game has terminated and
// been handed to the store.
type entry struct {
	mu   sync.RWMutex
	game *Game
	done chan struct{}
}

// update applies fn to the game under the write lock.
func (e *entry) update(fn func(g *Game)) {
	e.mu.Lock()
	fn(e.game)
	e.mu.Unlock()
}

// snapshot returns a copy safe to hand to callers.
func (e *entry) snapshot() *Game {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.game.clone()
}
