// Package notnilrules implements rules.Engine on top of github.com/notnil/chess.
package notnilrules

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"

	"github.com/discochess/arena/internal/rules"
)

// Compile-time check that Engine implements rules.Engine.
var _ rules.Engine = (*Engine)(nil)

var (
	uciNotation = chess.UCINotation{}
	sanNotation = chess.AlgebraicNotation{}
)

// ErrIllegalMove is returned by Apply for a move the position does not offer.
var ErrIllegalMove = errors.New("notnilrules: illegal move")

// Engine wraps a notnil/chess game.
type Engine struct {
	game *chess.Game
}

// New creates an engine positioned at fen, or at the initial position if fen is empty.
func New(fen string) (rules.Engine, error) {
	if fen == "" {
		return &Engine{game: chess.NewGame()}, nil
	}

	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parsing FEN %q: %w", fen, err)
	}
	return &Engine{game: chess.NewGame(opt)}, nil
}

// Factory is New typed as a rules.Factory.
var Factory rules.Factory = New

// FEN returns the current position.
func (e *Engine) FEN() string {
	return e.game.Position().String()
}

// Turn returns the side to move.
func (e *Engine) Turn() rules.Color {
	if e.game.Position().Turn() == chess.Black {
		return rules.Black
	}
	return rules.White
}

// LegalMoves enumerates the legal moves of the current position.
func (e *Engine) LegalMoves() []rules.Move {
	pos := e.game.Position()
	valid := e.game.ValidMoves()

	moves := make([]rules.Move, 0, len(valid))
	for _, m := range valid {
		moves = append(moves, convert(pos, m))
	}
	return moves
}

// Apply plays m and returns its SAN.
// Draws that the rules only make claimable are claimed immediately.
func (e *Engine) Apply(m rules.Move) (string, error) {
	pos := e.game.Position()
	want := m.UCI()

	for _, vm := range e.game.ValidMoves() {
		if uciNotation.Encode(pos, vm) != want {
			continue
		}

		san := sanNotation.Encode(pos, vm)
		if err := e.game.Move(vm); err != nil {
			return "", fmt.Errorf("applying %s: %w", want, err)
		}
		e.claimDraw()
		return san, nil
	}

	return "", fmt.Errorf("%w: %s in %s", ErrIllegalMove, want, pos.String())
}

// Status classifies the current position.
func (e *Engine) Status() rules.Status {
	var st rules.Status

	switch e.game.Method() {
	case chess.Checkmate:
		st.Checkmate = true
	case chess.Stalemate:
		st.Stalemate = true
	case chess.ThreefoldRepetition, chess.FivefoldRepetition:
		st.ThreefoldRepetition = true
	case chess.InsufficientMaterial:
		st.InsufficientMaterial = true
	case chess.FiftyMoveRule, chess.SeventyFiveMoveRule, chess.DrawOffer:
		st.Draw = true
	}

	if e.game.Outcome() != chess.NoOutcome {
		return st
	}

	for _, method := range e.game.EligibleDraws() {
		switch method {
		case chess.ThreefoldRepetition:
			st.ThreefoldRepetition = true
		case chess.FiftyMoveRule:
			st.Draw = true
		}
	}
	return st
}

// PGN serializes the move history.
func (e *Engine) PGN() string {
	return e.game.String()
}

func (e *Engine) claimDraw() {
	if e.game.Outcome() != chess.NoOutcome {
		return
	}
	for _, method := range []chess.Method{chess.ThreefoldRepetition, chess.FiftyMoveRule} {
		for _, eligible := range e.game.EligibleDraws() {
			if eligible == method {
				_ = e.game.Draw(method)
				return
			}
		}
	}
}

func convert(pos *chess.Position, m *chess.Move) rules.Move {
	uci := uciNotation.Encode(pos, m)
	mv := rules.Move{
		From: uci[0:2],
		To:   uci[2:4],
		SAN:  sanNotation.Encode(pos, m),
	}
	if len(uci) > 4 {
		mv.Promotion = uci[4:]
	}
	return mv
}
