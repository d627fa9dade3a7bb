// Package fen reads material from the piece placement field of FEN strings.
package fen

import (
	"errors"
	"strings"
)

// ErrInvalidFEN indicates the FEN string is malformed.
var ErrInvalidFEN = errors.New("fen: invalid FEN notation")

// Counts holds the non-king pieces of one side.
type Counts struct {
	Pawns   int
	Knights int
	Bishops int
	Rooks   int
	Queens  int
}

// Points values the pieces 1/3/3/5/9.
func (c Counts) Points() int {
	return c.Pawns + 3*c.Knights + 3*c.Bishops + 5*c.Rooks + 9*c.Queens
}

// Material represents the piece counts for both sides.
type Material struct {
	White Counts
	Black Counts
}

// Balance returns white's points minus black's.
func (m Material) Balance() int {
	return m.White.Points() - m.Black.Points()
}

// ParseMaterial counts the pieces of a FEN string. Only the piece placement
// field is required.
func ParseMaterial(fen string) (Material, error) {
	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return Material{}, ErrInvalidFEN
	}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return Material{}, ErrInvalidFEN
	}

	var m Material
	for _, rank := range ranks {
		squares := 0
		for _, ch := range rank {
			if ch >= '1' && ch <= '8' {
				squares += int(ch - '0')
				continue
			}
			side := &m.White
			if ch >= 'a' && ch <= 'z' {
				side = &m.Black
				ch -= 'a' - 'A'
			}
			switch ch {
			case 'P':
				side.Pawns++
			case 'N':
				side.Knights++
			case 'B':
				side.Bishops++
			case 'R':
				side.Rooks++
			case 'Q':
				side.Queens++
			case 'K':
			default:
				return Material{}, ErrInvalidFEN
			}
			squares++
		}
		if squares != 8 {
			return Material{}, ErrInvalidFEN
		}
	}
	return m, nil
}
