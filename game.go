package arena

import (
	"fmt"
	"slices"
	"time"

	"github.com/discochess/arena/internal/provider"
	"github.com/discochess/arena/internal/rules"
)

// Status is the lifecycle state of a game. It only moves forward:
// pending, running, then finished or error.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusError    Status = "error"
)

// Terminal reports whether the game has a final result.
func (s Status) Terminal() bool {
	return s == StatusFinished || s == StatusError
}

// Winner of a game.
type Winner string

const (
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerDraw  Winner = "draw"
)

// Termination explains why a game ended.
type Termination string

const (
	TerminationCheckmate            Termination = "checkmate"
	TerminationStalemate            Termination = "stalemate"
	TerminationThreefoldRepetition  Termination = "threefold_repetition"
	TerminationInsufficientMaterial Termination = "insufficient_material"
	TerminationDraw                 Termination = "draw"
	TerminationMaxPlies             Termination = "max_plies_reached"
	TerminationEngineError          Termination = "engine_error"
	TerminationUnknown              Termination = "unknown"
)

// Result is set exactly once, when a game terminates.
type Result struct {
	Winner      Winner      `json:"winner"`
	Termination Termination `json:"termination"`
	Reason      string      `json:"reason"`
}

// SideConfig configures the move-provider of one side. The credential is
// never serialized.
type SideConfig = provider.Config

// MoveRecord is the audit entry of one ply. Records are append-only.
type MoveRecord struct {
	Ply            int         `json:"ply"`
	Color          rules.Color `json:"color"`
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	MoveUCI        string      `json:"moveUci"`
	MoveSAN        string      `json:"moveSan"`
	FENBefore      string      `json:"fenBefore"`
	FENAfter       string      `json:"fenAfter"`
	LegalUCI       []string    `json:"legalUci"`
	RawModelOutput string      `json:"rawModelOutput"`
	ExtractedToken string      `json:"extractedToken"`
	UsedFallback   bool        `json:"usedFallback"`
	FallbackReason string      `json:"fallbackReason,omitempty"`
	Attempts       int         `json:"attempts"`
	LatencyMs      int64       `json:"latencyMs"`
	Timestamp      time.Time   `json:"timestamp"`
}

// Snapshot is the position after a ply; ply 0 is the starting position.
type Snapshot struct {
	Ply  int    `json:"ply"`
	FEN  string `json:"fen"`
	Note string `json:"note,omitempty"`
	SAN  string `json:"san,omitempty"`
}

// Game is the full record of a game. While a game runs it is owned by its
// runner; callers only ever see copies.
type Game struct {
	ID              string       `json:"id"`
	CreatedAt       time.Time    `json:"createdAt"`
	StartedAt       *time.Time   `json:"startedAt"`
	FinishedAt      *time.Time   `json:"finishedAt"`
	Status          Status       `json:"status"`
	White           SideConfig   `json:"white"`
	Black           SideConfig   `json:"black"`
	StartFEN        string       `json:"startFen"`
	FEN             string       `json:"currentFen"`
	PGN             string       `json:"pgn"`
	MaxPlies        int          `json:"maxPlies"`
	MaxRetries      int          `json:"maxRetries"`
	MoveTimeLimitMs int64        `json:"moveTimeLimitMs"`
	Result          *Result      `json:"result"`
	Moves           []MoveRecord `json:"moves"`
	Snapshots       []Snapshot   `json:"snapshots"`
}

// Side returns the configuration of the given color.
func (g *Game) Side(c rules.Color) SideConfig {
	if c == rules.Black {
		return g.Black
	}
	return g.White
}

// Err returns an error wrapping ErrEngine if the game aborted.
func (g *Game) Err() error {
	if g.Status != StatusError || g.Result == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrEngine, g.Result.Reason)
}

// Summary returns the public overview of the game.
func (g *Game) Summary() Summary {
	return Summary{
		ID:         g.ID,
		CreatedAt:  g.CreatedAt,
		StartedAt:  g.StartedAt,
		FinishedAt: g.FinishedAt,
		Status:     g.Status,
		Result:     g.Result,
		White:      sideSummary(g.White),
		Black:      sideSummary(g.Black),
		FEN:        g.FEN,
		MoveCount:  len(g.Moves),
		MaxPlies:   g.MaxPlies,
	}
}

func (g *Game) clone() *Game {
	c := *g
	if g.StartedAt != nil {
		t := *g.StartedAt
		c.StartedAt = &t
	}
	if g.FinishedAt != nil {
		t := *g.FinishedAt
		c.FinishedAt = &t
	}
	if g.Result != nil {
		r := *g.Result
		c.Result = &r
	}
	// Records are never mutated after being appended, so sharing their
	// LegalUCI slices is safe.
	c.Moves = slices.Clone(g.Moves)
	c.Snapshots = slices.Clone(g.Snapshots)
	return &c
}

// SideSummary identifies a side without its credential or endpoint.
type SideSummary struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Name     string `json:"name"`
}

func sideSummary(c SideConfig) SideSummary {
	return SideSummary{Provider: c.Provider, Model: c.Model, Name: c.Name}
}

// Summary is the overview returned by status queries and listings.
type Summary struct {
	ID         string      `json:"id"`
	CreatedAt  time.Time   `json:"createdAt"`
	StartedAt  *time.Time  `json:"startedAt"`
	FinishedAt *time.Time  `json:"finishedAt"`
	Status     Status      `json:"status"`
	Result     *Result     `json:"result"`
	White      SideSummary `json:"white"`
	Black      SideSummary `json:"black"`
	FEN        string      `json:"fen"`
	MoveCount  int         `json:"moveCount"`
	MaxPlies   int         `json:"maxPlies"`
}
