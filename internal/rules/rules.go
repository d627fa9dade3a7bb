// Package rules defines the chess rules engine contract the arena relies on.
// Legality is never computed here; implementations are trusted oracles.
package rules

import "strings"

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Color is the side to move.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// Move is a legal move as offered by the engine for a position.
type Move struct {
	From      string // origin square, e.g. "e2"
	To        string // destination square, e.g. "e4"
	Promotion string // "q", "r", "b", "n" or empty
	SAN       string // standard algebraic notation in the offering position
}

// UCI returns the compact coordinate notation of the move.
func (m Move) UCI() string {
	return strings.ToLower(m.From + m.To + m.Promotion)
}

// Status reports which terminal conditions hold for a position.
// More than one flag may be set at once.
type Status struct {
	Checkmate            bool
	Stalemate            bool
	ThreefoldRepetition  bool
	InsufficientMaterial bool
	Draw                 bool // any other draw condition
}

// Over reports whether any terminal condition holds.
func (s Status) Over() bool {
	return s.Checkmate || s.Stalemate || s.ThreefoldRepetition || s.InsufficientMaterial || s.Draw
}

// Engine tracks a single game position.
// An Engine is not safe for concurrent use.
type Engine interface {
	// FEN returns the current position.
	FEN() string

	// Turn returns the side to move.
	Turn() Color

	// LegalMoves enumerates the legal moves of the current position.
	LegalMoves() []Move

	// Apply plays a move and returns its SAN as played.
	Apply(m Move) (string, error)

	// Status classifies the current position.
	Status() Status

	// PGN serializes the move history.
	PGN() string
}

// Factory creates an Engine starting from the given FEN.
// An empty FEN selects StartFEN.
type Factory func(fen string) (Engine, error)
