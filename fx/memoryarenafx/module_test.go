package memoryarenafx

import (
	"context"
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/store/memstore"
)

func TestModule(t *testing.T) {
	var (
		a  *arena.Arena
		st *memstore.Store
	)
	app := fxtest.New(t,
		fx.Supply(zap.NewNop()),
		Module,
		fx.Populate(&a, &st),
	)
	app.RequireStart()
	defer app.RequireStop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	summary, err := a.StartGame(ctx, arena.GameRequest{
		White:    arena.SideConfig{Provider: "mock-random"},
		Black:    arena.SideConfig{Provider: "openai", APIKey: "k"},
		MaxPlies: 6,
	})
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	g, err := a.Wait(ctx, summary.ID)
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if len(g.Moves) == 0 || len(g.Moves) > 6 {
		t.Errorf("len(Moves) = %d, want 1..6", len(g.Moves))
	}
	for _, m := range g.Moves {
		if m.Color == "black" && !m.UsedFallback {
			t.Errorf("ply %d: black move without fallback on an unregistered provider", m.Ply)
		}
	}
	if st.Len() != 1 {
		t.Errorf("store has %d records, want 1", st.Len())
	}
}
