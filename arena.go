// Package arena runs automated chess games between move-providers: large
// language model APIs or a random-move fallback. Every ply is audited and
// finished games are persisted for replay.
//
// Example usage:
//
//	a, err := arena.New(
//	    arena.WithStore(memstore.New()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer a.Close()
//
//	summary, err := a.StartGame(ctx, arena.GameRequest{
//	    White: arena.SideConfig{Provider: "mock-random"},
//	    Black: arena.SideConfig{Provider: "mock-random"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	game, err := a.Wait(ctx, summary.ID)
//	fmt.Println(game.Result.Termination)
package arena

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/discochess/arena/internal/provider"
	"github.com/discochess/arena/internal/rules"
	"github.com/discochess/arena/internal/stats"
	"github.com/discochess/arena/internal/store"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrNotFound indicates no live or persisted game has the given id.
	ErrNotFound = errors.New("arena: game not found")

	// ErrClosed indicates the arena has been closed.
	ErrClosed = errors.New("arena: arena closed")

	// ErrNoStore indicates no store was provided.
	ErrNoStore = errors.New("arena: no store provided")

	// ErrInvalidRequest indicates a game request that cannot be played.
	ErrInvalidRequest = errors.New("arena: invalid game request")

	// ErrEngine indicates a game aborted by a rules engine failure.
	ErrEngine = errors.New("arena: engine error")
)

// Defaults applied to zero fields of a GameRequest.
const (
	DefaultMaxPlies      = 160
	DefaultMaxRetries    = 2
	DefaultMoveTimeLimit = 30 * time.Second
	DefaultListLimit     = 50
)

// GameRequest describes a game to start.
type GameRequest struct {
	White SideConfig
	Black SideConfig

	// StartFEN is the starting position; empty selects the standard one.
	StartFEN string

	MaxPlies      int
	MaxRetries    int // attempts per ply before the random fallback
	MoveTimeLimit time.Duration
}

func (r GameRequest) withDefaults() (GameRequest, error) {
	if r.MaxPlies < 0 || r.MaxRetries < 0 || r.MoveTimeLimit < 0 {
		return r, fmt.Errorf("%w: negative limit", ErrInvalidRequest)
	}
	if r.MaxPlies == 0 {
		r.MaxPlies = DefaultMaxPlies
	}
	if r.MaxRetries == 0 {
		r.MaxRetries = DefaultMaxRetries
	}
	if r.MoveTimeLimit == 0 {
		r.MoveTimeLimit = DefaultMoveTimeLimit
	}
	if r.White.Provider == "" || r.Black.Provider == "" {
		return r, fmt.Errorf("%w: both sides need a provider", ErrInvalidRequest)
	}
	return r, nil
}

// Arena runs games and serves their records.
// An Arena is safe for concurrent use by multiple goroutines.
type Arena struct {
	store    store.Store
	gateway  *provider.Gateway
	rules    rules.Factory
	stats    stats.Collector
	logger   *zap.Logger
	registry *registry

	seed    *uint64
	started atomic.Uint64

	mu         sync.Mutex
	closed     bool
	running    sync.WaitGroup
	persistErr *multierror.Error
}

// New creates a new Arena with the given options. A store is required.
func New(opts ...Option) (*Arena, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.store == nil {
		return nil, ErrNoStore
	}

	a := &Arena{
		store:    cfg.store,
		gateway:  cfg.gateway,
		rules:    cfg.rules,
		stats:    cfg.stats,
		logger:   cfg.logger,
		registry: newRegistry(),
		seed:     cfg.seed,
	}

	a.logger.Debug("arena initialized", zap.Bool("seeded", a.seed != nil))

	return a, nil
}

// StartGame validates req, registers a pending game and plays it in the
// background. The returned summary reflects the game as accepted.
func (a *Arena) StartGame(ctx context.Context, req GameRequest) (*Summary, error) {
	req, err := req.withDefaults()
	if err != nil {
		return nil, err
	}

	engine, err := a.rules(req.StartFEN)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	a.running.Add(1)
	a.mu.Unlock()

	fen := engine.FEN()
	g := &Game{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		Status:          StatusPending,
		White:           req.White,
		Black:           req.Black,
		StartFEN:        fen,
		FEN:             fen,
		MaxPlies:        req.MaxPlies,
		MaxRetries:      req.MaxRetries,
		MoveTimeLimitMs: req.MoveTimeLimit.Milliseconds(),
		Moves:           []MoveRecord{},
		Snapshots:       []Snapshot{},
	}
	e := a.registry.add(g)
	summary := e.snapshot().Summary()

	a.stats.IncCounter(stats.MetricGamesStarted, 1)
	a.logger.Info("game started",
		zap.String("game", g.ID),
		zap.String("white", g.White.Name),
		zap.String("black", g.Black.Name),
		zap.Int("maxPlies", g.MaxPlies),
	)

	// Games outlive the request that started them.
	go a.run(context.WithoutCancel(ctx), e, engine, a.newRand())

	return &summary, nil
}

// Summary returns the overview of a live or persisted game.
func (a *Arena) Summary(ctx context.Context, id string) (*Summary, error) {
	g, err := a.Replay(ctx, id)
	if err != nil {
		return nil, err
	}
	s := g.Summary()
	return &s, nil
}

// Replay returns the full record of a live or persisted game, including
// every move and snapshot so far.
func (a *Arena) Replay(ctx context.Context, id string) (*Game, error) {
	if e, ok := a.registry.get(id); ok {
		return e.snapshot(), nil
	}
	return a.load(ctx, id)
}

// Wait blocks until the game has terminated and been handed to the store,
// then returns its record.
func (a *Arena) Wait(ctx context.Context, id string) (*Game, error) {
	if e, ok := a.registry.get(id); ok {
		select {
		case <-e.done:
			return e.snapshot(), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return a.load(ctx, id)
}

// List returns summaries of persisted and live games, newest first, at most
// limit of them (DefaultListLimit if limit <= 0). Records that cannot be
// read are skipped.
func (a *Arena) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	persisted, err := a.Games(ctx)
	if persisted == nil && err != nil {
		return nil, err
	}
	if err != nil {
		a.logger.Warn("skipping unreadable game records", zap.Error(err))
	}

	byID := make(map[string]Summary, len(persisted))
	for _, g := range persisted {
		byID[g.ID] = g.Summary()
	}
	// Live state wins over a record persisted moments ago.
	for _, g := range a.registry.snapshots() {
		byID[g.ID] = g.Summary()
	}

	out := make([]Summary, 0, len(byID))
	for _, s := range byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Games loads every persisted game. Records that fail to load are reported
// in the returned error, alongside the games that did load.
func (a *Arena) Games(ctx context.Context) ([]*Game, error) {
	ids, err := a.store.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}

	games := make([]*Game, 0, len(ids))
	var errs *multierror.Error
	for _, id := range ids {
		g, err := a.load(ctx, id)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		games = append(games, g)
	}
	return games, errs.ErrorOrNil()
}

// Close stops accepting games, waits for running games to finish and be
// persisted, then closes the store. Persistence failures seen during the
// arena's lifetime are reported here.
func (a *Arena) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.closed = true
	a.mu.Unlock()

	a.running.Wait()

	a.mu.Lock()
	result := a.persistErr
	a.mu.Unlock()

	if err := a.store.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing store: %w", err))
	}
	return result.ErrorOrNil()
}

// Store returns the storage backend used by this arena.
func (a *Arena) Store() store.Store {
	return a.store
}

// load reads and decodes a persisted game.
func (a *Arena) load(ctx context.Context, id string) (*Game, error) {
	data, err := a.store.ReadGame(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("reading game %s: %w", id, err)
	}
	g, err := DecodeGame(data)
	if err != nil {
		return nil, fmt.Errorf("decoding game %s: %w", id, err)
	}
	return g, nil
}

// newRand returns the random source of the next game.
func (a *Arena) newRand() *rand.Rand {
	n := a.started.Add(1)
	if a.seed != nil {
		return rand.New(rand.NewPCG(*a.seed, n))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
