package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/discochess/arena"
	"github.com/discochess/arena/internal/provider"
	"github.com/discochess/arena/internal/store"
)

// Request limits. Zero selects the default; other values are clamped.
const (
	defaultMaxPlies = 160
	minMaxPlies     = 10
	maxMaxPlies     = 1000

	defaultMaxRetries = 2
	minMaxRetries     = 1
	maxMaxRetries     = 5

	defaultMoveTimeLimitMs = 30000
	minMoveTimeLimitMs     = 5000
	maxMoveTimeLimitMs     = 120000
)

// isoMillis matches the timestamps the UI expects.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// startRequest is the body of POST /api/game/start. A missing side plays
// openai as white and anthropic as black.
type startRequest struct {
	White           *provider.Side `json:"white"`
	Black           *provider.Side `json:"black"`
	MaxPlies        int            `json:"maxPlies"`
	MaxRetries      int            `json:"maxRetries"`
	MoveTimeLimitMs int            `json:"moveTimeLimitMs"`
	StartFEN        string         `json:"startFen"`
}

// gameRequest normalizes sides and clamps limits.
func (r startRequest) gameRequest(defaults map[string]provider.Defaults) arena.GameRequest {
	white := provider.Side{Provider: provider.KindOpenAI}
	if r.White != nil {
		white = *r.White
	}
	black := provider.Side{Provider: provider.KindAnthropic}
	if r.Black != nil {
		black = *r.Black
	}

	return arena.GameRequest{
		White:         provider.Normalize(white, defaults, provider.KindMockRandom),
		Black:         provider.Normalize(black, defaults, provider.KindMockRandom),
		StartFEN:      r.StartFEN,
		MaxPlies:      clamp(r.MaxPlies, defaultMaxPlies, minMaxPlies, maxMaxPlies),
		MaxRetries:    clamp(r.MaxRetries, defaultMaxRetries, minMaxRetries, maxMaxRetries),
		MoveTimeLimit: time.Duration(clamp(r.MoveTimeLimitMs, defaultMoveTimeLimitMs, minMoveTimeLimitMs, maxMoveTimeLimitMs)) * time.Millisecond,
	}
}

func clamp(v, def, lo, hi int) int {
	if v == 0 {
		v = def
	}
	return max(lo, min(v, hi))
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"ok": false, "message": message})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC().Format(isoMillis)})
}

func (h *handler) startGame(c *gin.Context) {
	var body startRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	summary, err := h.svc.StartGame(c.Request.Context(), body.gameRequest(h.defaults))
	switch {
	case errors.Is(err, arena.ErrInvalidRequest):
		fail(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, arena.ErrClosed):
		fail(c, http.StatusServiceUnavailable, "arena is shutting down")
		return
	case err != nil:
		h.logger.Error("starting game", zap.Error(err))
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "gameId": summary.ID, "summary": summary})
}

func (h *handler) gameSummary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "game": summary})
}

func (h *handler) replay(c *gin.Context) {
	game, err := h.svc.Replay(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "replay": game})
}

func (h *handler) lookupFailed(c *gin.Context, err error) {
	if errors.Is(err, arena.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		fail(c, http.StatusNotFound, "game not found")
		return
	}
	h.logger.Error("loading game", zap.String("game", c.Param("id")), zap.Error(err))
	fail(c, http.StatusInternalServerError, err.Error())
}

func (h *handler) listGames(c *gin.Context) {
	limit := arena.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	games, err := h.svc.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("listing games", zap.Error(err))
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "games": games})
}

// staticFallback serves files from dir for unknown GET routes, falling back
// to dir/index.html. Without a dir, or for API paths, it answers 404.
func staticFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := path.Clean("/" + c.Request.URL.Path)
		if dir == "" || c.Request.Method != http.MethodGet || p == "/api" || strings.HasPrefix(p, "/api/") {
			fail(c, http.StatusNotFound, "not found")
			return
		}
		file := filepath.Join(dir, filepath.FromSlash(p))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
