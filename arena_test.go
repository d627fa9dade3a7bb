package arena

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/discochess/arena/internal/provider"
	"github.com/discochess/arena/internal/provider/gemini"
	"github.com/discochess/arena/internal/rules"
	"github.com/discochess/arena/internal/rules/notnilrules"
	"github.com/discochess/arena/internal/store"
	"github.com/discochess/arena/internal/store/memstore"
)

// scriptedProvider answers ply n with replies[n-1], or with fallback once
// the script runs out.
type scriptedProvider struct {
	kind     string
	replies  []string
	fallback string
	err      error
	block    bool

	mu    sync.Mutex
	calls int
}

func (p *scriptedProvider) Kind() string { return p.kind }

func (p *scriptedProvider) Invoke(ctx context.Context, cfg provider.Config, req provider.Request) (*provider.Response, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}
	if req.Ply-1 < len(p.replies) {
		return &provider.Response{Text: p.replies[req.Ply-1]}, nil
	}
	return &provider.Response{Text: p.fallback}, nil
}

func (p *scriptedProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// countingStore counts writes to an in-memory store.
type countingStore struct {
	*memstore.Store
	mu       sync.Mutex
	writes   map[string]int
	writeErr error
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memstore.New(), writes: make(map[string]int)}
}

func (s *countingStore) WriteGame(ctx context.Context, id string, data []byte) error {
	s.mu.Lock()
	s.writes[id]++
	s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.Store.WriteGame(ctx, id, data)
}

func (s *countingStore) Writes(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[id]
}

func newTestArena(t *testing.T, st store.Store, opts ...Option) *Arena {
	t.Helper()
	if st == nil {
		st = memstore.New()
	}
	a, err := New(append([]Option{WithStore(st), WithSeed(7)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func side(kind string) SideConfig {
	return SideConfig{Provider: kind, Model: "test", APIKey: "secret-key", Name: kind + ":test"}
}

func mockSide() SideConfig {
	return SideConfig{Provider: provider.KindMockRandom, Name: "mock-random:default"}
}

func playToEnd(t *testing.T, a *Arena, req GameRequest) *Game {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := a.StartGame(ctx, req)
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	g, err := a.Wait(ctx, summary.ID)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	checkInvariants(t, g)
	return g
}

// checkInvariants verifies the properties every terminated game satisfies.
func checkInvariants(t *testing.T, g *Game) {
	t.Helper()

	if !g.Status.Terminal() {
		t.Fatalf("Status = %s, want terminal", g.Status)
	}
	if g.Result == nil {
		t.Fatal("terminated game has no result")
	}
	if g.StartedAt == nil || g.FinishedAt == nil {
		t.Error("terminated game lacks start or finish time")
	}
	if len(g.Moves) > g.MaxPlies {
		t.Errorf("len(Moves) = %d exceeds MaxPlies %d", len(g.Moves), g.MaxPlies)
	}
	if len(g.Snapshots) != len(g.Moves)+1 {
		t.Fatalf("len(Snapshots) = %d, want len(Moves)+1 = %d", len(g.Snapshots), len(g.Moves)+1)
	}
	for i, s := range g.Snapshots {
		if s.Ply != i {
			t.Errorf("Snapshots[%d].Ply = %d", i, s.Ply)
		}
	}
	if g.Snapshots[0].FEN != g.StartFEN || g.Snapshots[0].Note != "initial" {
		t.Errorf("Snapshots[0] = %+v, want initial %s", g.Snapshots[0], g.StartFEN)
	}

	prev := g.StartFEN
	for i, m := range g.Moves {
		if m.Ply != i+1 {
			t.Errorf("Moves[%d].Ply = %d", i, m.Ply)
		}
		if m.FENBefore != prev {
			t.Errorf("Moves[%d].FENBefore = %q, want %q", i, m.FENBefore, prev)
		}
		if !slices.Contains(m.LegalUCI, m.MoveUCI) {
			t.Errorf("Moves[%d].MoveUCI = %s not among legal moves", i, m.MoveUCI)
		}
		if g.Snapshots[i+1].FEN != m.FENAfter {
			t.Errorf("Snapshots[%d].FEN = %q, want %q", i+1, g.Snapshots[i+1].FEN, m.FENAfter)
		}
		prev = m.FENAfter
	}
	if g.FEN != prev {
		t.Errorf("FEN = %q, want last position %q", g.FEN, prev)
	}
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New()
	if !errors.Is(err, ErrNoStore) {
		t.Errorf("New() error = %v, want ErrNoStore", err)
	}
}

func TestNew_WithStore(t *testing.T) {
	mem := memstore.New()
	a := newTestArena(t, mem)
	defer a.Close()

	if a.Store() != mem {
		t.Error("Store() returned unexpected store")
	}
}

func TestArena_FoolsMate(t *testing.T) {
	script := &scriptedProvider{
		kind: "script",
		replies: []string{
			"```json\n{\"move\":\"f2f3\"}\n```",
			"I think e5 is strong",
			"g2g4",
			`{"move":"Qh4#"}`,
		},
	}
	a := newTestArena(t, nil, WithGateway(provider.NewGateway(script)))
	defer a.Close()

	g := playToEnd(t, a, GameRequest{White: side("script"), Black: side("script")})

	if g.Status != StatusFinished {
		t.Fatalf("Status = %s, want finished", g.Status)
	}
	want := Result{Winner: WinnerBlack, Termination: TerminationCheckmate, Reason: "game_over"}
	if *g.Result != want {
		t.Errorf("Result = %+v, want %+v", *g.Result, want)
	}

	gotUCI := make([]string, len(g.Moves))
	for i, m := range g.Moves {
		gotUCI[i] = m.MoveUCI
		if m.UsedFallback {
			t.Errorf("Moves[%d] used fallback: %s", i, m.FallbackReason)
		}
	}
	if strings.Join(gotUCI, " ") != "f2f3 e7e5 g2g4 d8h4" {
		t.Errorf("moves = %v", gotUCI)
	}
	if g.Moves[0].ExtractedToken != "f2f3" || g.Moves[1].ExtractedToken != "e5" {
		t.Errorf("tokens = %q, %q", g.Moves[0].ExtractedToken, g.Moves[1].ExtractedToken)
	}
	if g.Moves[3].MoveSAN != "Qh4#" {
		t.Errorf("last SAN = %q, want Qh4#", g.Moves[3].MoveSAN)
	}
	if g.Moves[1].Color != rules.Black {
		t.Errorf("Moves[1].Color = %s, want black", g.Moves[1].Color)
	}
	if !strings.Contains(g.PGN, "Qh4#") {
		t.Errorf("PGN = %q, want it to contain the mating move", g.PGN)
	}
}

func TestArena_Stalemate(t *testing.T) {
	script := &scriptedProvider{kind: "script", replies: []string{"Qc7"}}
	a := newTestArena(t, nil, WithGateway(provider.NewGateway(script)))
	defer a.Close()

	g := playToEnd(t, a, GameRequest{
		White:    side("script"),
		Black:    side("script"),
		StartFEN: "k7/8/1K6/8/8/8/8/2Q5 w - - 0 1",
	})

	if g.Result.Termination != TerminationStalemate || g.Result.Winner != WinnerDraw {
		t.Errorf("Result = %+v, want stalemate draw", *g.Result)
	}
	if len(g.Moves) != 1 {
		t.Errorf("len(Moves) = %d, want 1", len(g.Moves))
	}
}

func TestArena_InsufficientMaterial(t *testing.T) {
	a := newTestArena(t, nil)
	defer a.Close()

	// Kxb2 is white's only legal move and leaves bare kings.
	g := playToEnd(t, a, GameRequest{
		White:    mockSide(),
		Black:    mockSide(),
		StartFEN: "7k/8/8/8/8/8/1r6/K7 w - - 0 1",
	})

	if g.Result.Termination != TerminationInsufficientMaterial {
		t.Errorf("Termination = %s, want insufficient_material", g.Result.Termination)
	}
	if len(g.Moves) != 1 || g.Moves[0].MoveUCI != "a1b2" {
		t.Errorf("moves = %+v, want single a1b2", g.Moves)
	}
}

func TestArena_MaxPlies(t *testing.T) {
	script := &scriptedProvider{
		kind:    "script",
		replies: strings.Fields("e2e4 e7e5 g1f3 b8c6 f1c4 f8c5 b1c3 g8f6 d2d3 d7d6 c1g5"),
	}
	a := newTestArena(t, nil, WithGateway(provider.NewGateway(script)))
	defer a.Close()

	g := playToEnd(t, a, GameRequest{White: side("script"), Black: side("script"), MaxPlies: 10})

	if g.Result.Termination != TerminationMaxPlies || g.Result.Winner != WinnerDraw {
		t.Errorf("Result = %+v, want max_plies_reached draw", *g.Result)
	}
	if len(g.Moves) != 10 {
		t.Errorf("len(Moves) = %d, want 10", len(g.Moves))
	}
	if script.Calls() != 10 {
		t.Errorf("provider calls = %d, want 10", script.Calls())
	}
}

func TestArena_MockRandomNeedsNoCredential(t *testing.T) {
	a := newTestArena(t, nil)
	defer a.Close()

	g := playToEnd(t, a, GameRequest{White: mockSide(), Black: mockSide(), MaxPlies: 30})

	if g.Status != StatusFinished {
		t.Fatalf("Status = %s, want finished", g.Status)
	}
	for i, m := range g.Moves {
		if !m.UsedFallback || m.FallbackReason != "" {
			t.Errorf("Moves[%d] = fallback %v %q, want a fallback move without reason", i, m.UsedFallback, m.FallbackReason)
		}
		if m.RawModelOutput != provider.KindMockRandom || m.ExtractedToken != m.MoveUCI {
			t.Errorf("Moves[%d] raw %q token %q", i, m.RawModelOutput, m.ExtractedToken)
		}
	}
}

func TestArena_SeededGamesRepeat(t *testing.T) {
	play := func() []string {
		a := newTestArena(t, nil)
		defer a.Close()
		g := playToEnd(t, a, GameRequest{White: mockSide(), Black: mockSide(), MaxPlies: 20})
		var moves []string
		for _, m := range g.Moves {
			moves = append(moves, m.MoveUCI)
		}
		return moves
	}

	first, second := play(), play()
	if !slices.Equal(first, second) {
		t.Errorf("seeded games differ:\n%v\n%v", first, second)
	}
}

func TestArena_Fallback(t *testing.T) {
	tests := []struct {
		name       string
		white      SideConfig
		provider   *scriptedProvider
		wantReason string
	}{
		{
			name:       "unresolvable token",
			white:      side("script"),
			provider:   &scriptedProvider{kind: "script", fallback: "I resign"},
			wantReason: "illegal move token",
		},
		{
			name:       "http error",
			white:      side("script"),
			provider:   &scriptedProvider{kind: "script", err: &provider.HTTPError{Provider: "script", Status: 500, Body: "boom"}},
			wantReason: "500",
		},
		{
			name:       "missing credential",
			white:      SideConfig{Provider: "script", Name: "script:test"},
			provider:   &scriptedProvider{kind: "script", fallback: "e2e4"},
			wantReason: "missing credential",
		},
		{
			name:       "unsupported provider",
			white:      side("llama"),
			provider:   &scriptedProvider{kind: "script", fallback: "e2e4"},
			wantReason: "unsupported provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArena(t, nil, WithGateway(provider.NewGateway(tt.provider)))
			defer a.Close()

			g := playToEnd(t, a, GameRequest{White: tt.white, Black: mockSide(), MaxPlies: 4, MaxRetries: 3})

			if len(g.Moves) != 4 {
				t.Fatalf("len(Moves) = %d, want 4", len(g.Moves))
			}
			for _, m := range []MoveRecord{g.Moves[0], g.Moves[2]} {
				if !m.UsedFallback {
					t.Errorf("ply %d: UsedFallback = false", m.Ply)
				}
				if !strings.Contains(m.FallbackReason, tt.wantReason) {
					t.Errorf("ply %d: FallbackReason = %q, want it to contain %q", m.Ply, m.FallbackReason, tt.wantReason)
				}
				if m.Attempts != 3 {
					t.Errorf("ply %d: Attempts = %d, want 3", m.Ply, m.Attempts)
				}
			}
			if m := g.Moves[1]; !m.UsedFallback || m.FallbackReason != "" || m.Attempts != 1 {
				t.Errorf("mock-random move = fallback %v reason %q attempts %d, want fallback without reason in 1 attempt",
					m.UsedFallback, m.FallbackReason, m.Attempts)
			}
		})
	}
}

func TestArena_ProviderTimeout(t *testing.T) {
	slow := &scriptedProvider{kind: "script", block: true}
	a := newTestArena(t, nil, WithGateway(provider.NewGateway(slow)))
	defer a.Close()

	g := playToEnd(t, a, GameRequest{
		White:         side("script"),
		Black:         mockSide(),
		MaxPlies:      1,
		MaxRetries:    2,
		MoveTimeLimit: 20 * time.Millisecond,
	})

	m := g.Moves[0]
	if !m.UsedFallback || !strings.Contains(m.FallbackReason, "timeout") {
		t.Errorf("move = fallback %v reason %q, want timeout fallback", m.UsedFallback, m.FallbackReason)
	}
	if slow.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2", slow.Calls())
	}
}

// brokenEngine fails or panics when asked to apply move number failAt.
type brokenEngine struct {
	rules.Engine
	applied int
	failAt  int
	panics  bool
}

func (e *brokenEngine) Apply(m rules.Move) (string, error) {
	e.applied++
	if e.applied == e.failAt {
		if e.panics {
			panic("corrupted board")
		}
		return "", errors.New("board state diverged")
	}
	return e.Engine.Apply(m)
}

func brokenRules(failAt int, panics bool) rules.Factory {
	return func(fen string) (rules.Engine, error) {
		inner, err := notnilrules.New(fen)
		if err != nil {
			return nil, err
		}
		return &brokenEngine{Engine: inner, failAt: failAt, panics: panics}, nil
	}
}

func TestArena_EngineError(t *testing.T) {
	tests := []struct {
		name       string
		panics     bool
		wantReason string
	}{
		{"error", false, "board state diverged"},
		{"panic", true, "corrupted board"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newCountingStore()
			a := newTestArena(t, st, WithRules(brokenRules(3, tt.panics)))
			defer a.Close()

			g := playToEnd(t, a, GameRequest{White: mockSide(), Black: mockSide()})

			if g.Status != StatusError {
				t.Fatalf("Status = %s, want error", g.Status)
			}
			if g.Result.Termination != TerminationEngineError {
				t.Errorf("Termination = %s, want engine_error", g.Result.Termination)
			}
			if !strings.Contains(g.Result.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to contain %q", g.Result.Reason, tt.wantReason)
			}
			if len(g.Moves) != 2 {
				t.Errorf("len(Moves) = %d, want the 2 moves before the failure", len(g.Moves))
			}
			if !errors.Is(g.Err(), ErrEngine) {
				t.Errorf("Err() = %v, want ErrEngine", g.Err())
			}
			if n := st.Writes(g.ID); n != 1 {
				t.Errorf("store writes = %d, want 1", n)
			}
		})
	}
}

func TestArena_PersistsOnceWithoutCredentials(t *testing.T) {
	script := &scriptedProvider{kind: "script", fallback: "e2e4"}
	st := newCountingStore()
	a := newTestArena(t, st, WithGateway(provider.NewGateway(script)))
	defer a.Close()

	g := playToEnd(t, a, GameRequest{White: side("script"), Black: mockSide(), MaxPlies: 2})

	if n := st.Writes(g.ID); n != 1 {
		t.Errorf("store writes = %d, want 1", n)
	}
	data, err := st.ReadGame(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("ReadGame() error = %v", err)
	}
	if bytes.Contains(data, []byte("secret-key")) {
		t.Error("persisted record contains the credential")
	}

	// Served from the store once persisted.
	replay, err := a.Replay(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(replay.Moves) != len(g.Moves) || replay.Result.Termination != g.Result.Termination {
		t.Errorf("Replay() = %d moves %s, want %d moves %s",
			len(replay.Moves), replay.Result.Termination, len(g.Moves), g.Result.Termination)
	}
	if replay.White.APIKey != "" {
		t.Error("replayed record has a credential")
	}
}

func TestArena_TransportErrorKeepsKeyOutOfRecord(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/v1beta"
	srv.Close()

	st := newCountingStore()
	a := newTestArena(t, st, WithGateway(provider.NewGateway(gemini.New())))
	defer a.Close()

	white := SideConfig{Provider: provider.KindGemini, Model: "m", APIKey: "SUPERSECRET123", BaseURL: base, Name: "gemini:m"}
	g := playToEnd(t, a, GameRequest{White: white, Black: mockSide(), MaxPlies: 1, MaxRetries: 1})

	if m := g.Moves[0]; !m.UsedFallback || m.FallbackReason == "" {
		t.Fatalf("move = fallback %v reason %q, want a transport fallback", m.UsedFallback, m.FallbackReason)
	}
	encoded, err := EncodeGame(g)
	if err != nil {
		t.Fatalf("EncodeGame() error = %v", err)
	}
	if bytes.Contains(encoded, []byte("SUPERSECRET123")) {
		t.Errorf("encoded record contains the key: %s", g.Moves[0].FallbackReason)
	}
	data, err := st.ReadGame(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("ReadGame() error = %v", err)
	}
	if bytes.Contains(data, []byte("SUPERSECRET123")) {
		t.Error("persisted record contains the key")
	}
}

func TestArena_PersistFailureKeepsGame(t *testing.T) {
	st := newCountingStore()
	st.writeErr = errors.New("disk full")
	a := newTestArena(t, st)

	g := playToEnd(t, a, GameRequest{White: mockSide(), Black: mockSide(), MaxPlies: 10})

	s, err := a.Summary(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if s.Status != StatusFinished {
		t.Errorf("Summary().Status = %s, want finished", s.Status)
	}

	err = a.Close()
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Close() error = %v, want persistence failure", err)
	}
}

func TestArena_SummaryNotFound(t *testing.T) {
	a := newTestArena(t, nil)
	defer a.Close()

	if _, err := a.Summary(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Summary() error = %v, want ErrNotFound", err)
	}
	if _, err := a.Replay(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replay() error = %v, want ErrNotFound", err)
	}
}

func TestArena_StartGameInvalid(t *testing.T) {
	a := newTestArena(t, nil)
	defer a.Close()

	tests := []struct {
		name string
		req  GameRequest
	}{
		{"bad fen", GameRequest{White: mockSide(), Black: mockSide(), StartFEN: "not a fen"}},
		{"negative plies", GameRequest{White: mockSide(), Black: mockSide(), MaxPlies: -1}},
		{"no provider", GameRequest{White: mockSide()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.StartGame(context.Background(), tt.req); !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("StartGame() error = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestArena_StartGameDefaults(t *testing.T) {
	a := newTestArena(t, nil)
	defer a.Close()

	s, err := a.StartGame(context.Background(), GameRequest{White: mockSide(), Black: mockSide()})
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	if s.MaxPlies != DefaultMaxPlies {
		t.Errorf("MaxPlies = %d, want %d", s.MaxPlies, DefaultMaxPlies)
	}
	if s.Status != StatusPending || s.FEN != rules.StartFEN || s.Result != nil {
		t.Errorf("summary = %+v, want pending game at the start position", s)
	}

	g, err := a.Wait(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if g.MaxRetries != DefaultMaxRetries || g.MoveTimeLimitMs != DefaultMoveTimeLimit.Milliseconds() {
		t.Errorf("limits = %d retries %d ms", g.MaxRetries, g.MoveTimeLimitMs)
	}
}

func TestArena_List(t *testing.T) {
	st := memstore.New()
	a := newTestArena(t, st)
	defer a.Close()
	ctx := context.Background()

	old := &Game{
		ID:        "old-game",
		CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:    StatusFinished,
		White:     mockSide(),
		Black:     mockSide(),
		Result:    &Result{Winner: WinnerDraw, Termination: TerminationMaxPlies},
	}
	data, err := EncodeGame(old)
	if err != nil {
		t.Fatalf("EncodeGame() error = %v", err)
	}
	st.WriteGame(ctx, old.ID, data)
	st.WriteGame(ctx, "garbage", []byte("{not json"))

	var ids []string
	for i := 0; i < 3; i++ {
		g := playToEnd(t, a, GameRequest{White: mockSide(), Black: mockSide(), MaxPlies: 10})
		ids = append(ids, g.ID)
	}

	all, err := a.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("len(List()) = %d, want 4 (unreadable record skipped)", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.After(all[i-1].CreatedAt) {
			t.Errorf("List() not sorted newest first at %d", i)
		}
	}
	if all[len(all)-1].ID != old.ID {
		t.Errorf("oldest = %s, want %s", all[len(all)-1].ID, old.ID)
	}

	two, err := a.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(two) != 2 {
		t.Errorf("len(List(2)) = %d, want 2", len(two))
	}
}

func TestArena_ListIncludesLiveGames(t *testing.T) {
	slow := &scriptedProvider{kind: "script", block: true}
	a := newTestArena(t, nil, WithGateway(provider.NewGateway(slow)))
	defer a.Close()

	s, err := a.StartGame(context.Background(), GameRequest{
		White:         side("script"),
		Black:         mockSide(),
		MaxPlies:      1,
		MaxRetries:    1,
		MoveTimeLimit: 200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	list, err := a.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].ID != s.ID || list[0].Status.Terminal() {
		t.Errorf("List() = %+v, want the live game", list)
	}
}

func TestArena_Close(t *testing.T) {
	st := newCountingStore()
	a := newTestArena(t, st)

	s, err := a.StartGame(context.Background(), GameRequest{White: mockSide(), Black: mockSide(), MaxPlies: 20})
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Close waits for running games to be persisted.
	if n := st.Writes(s.ID); n != 1 {
		t.Errorf("store writes = %d, want 1", n)
	}

	if _, err := a.StartGame(context.Background(), GameRequest{White: mockSide(), Black: mockSide()}); !errors.Is(err, ErrClosed) {
		t.Errorf("StartGame() after Close error = %v, want ErrClosed", err)
	}
	if err := a.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
}
