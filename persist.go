package arena

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

// EncodeGame serializes a game record as indented JSON.
// Credentials are never included.
func EncodeGame(g *Game) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// DecodeGame parses a record produced by EncodeGame.
func DecodeGame(data []byte) (*Game, error) {
	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	if g.ID == "" {
		return nil, errors.New("record has no id")
	}
	return &g, nil
}

// persist hands the terminated game to the store. On success the game is
// dropped from the registry and served from the store from then on; on
// failure it stays live so it can still be inspected.
func (a *Arena) persist(ctx context.Context, e *entry, logger *zap.Logger) {
	g := e.snapshot()

	err := a.write(ctx, g)
	close(e.done)
	if err != nil {
		logger.Error("persisting game", zap.Error(err))
		a.mu.Lock()
		a.persistErr = multierror.Append(a.persistErr, err)
		a.mu.Unlock()
		return
	}

	a.registry.remove(g.ID)
	logger.Debug("game persisted")
}

func (a *Arena) write(ctx context.Context, g *Game) error {
	data, err := EncodeGame(g)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", g.ID, err)
	}
	if err := a.store.WriteGame(ctx, g.ID, data); err != nil {
		return fmt.Errorf("writing game %s: %w", g.ID, err)
	}
	return nil
}
