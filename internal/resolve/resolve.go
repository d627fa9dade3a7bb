// Package resolve maps an extracted move token to one of the legal moves of
// a position.
package resolve

import (
	"errors"
	"strings"

	"github.com/discochess/arena/internal/rules"
)

// ErrNoMatch indicates the token names none of the legal moves.
var ErrNoMatch = errors.New("resolve: no legal move matches token")

// Resolver indexes the legal moves of a single position.
type Resolver struct {
	byUCI map[string]rules.Move
	bySAN map[string][]rules.Move
}

// New builds a Resolver over legal.
func New(legal []rules.Move) *Resolver {
	r := &Resolver{
		byUCI: make(map[string]rules.Move, len(legal)),
		bySAN: make(map[string][]rules.Move, len(legal)),
	}
	for _, m := range legal {
		r.byUCI[m.UCI()] = m

		key := strings.ToLower(m.SAN)
		r.bySAN[key] = append(r.bySAN[key], m)
	}
	return r
}

// Resolve returns the legal move named by token, matched case-insensitively
// against coordinate then algebraic notation. Check, mate and annotation
// suffixes are stripped from the token for a second algebraic lookup, so
// "Nf3+" finds Nf3 while "Qh4" does not find Qh4#. Nothing is guessed: a token that
// matches nothing, or only differs by case between two moves (Bxc4 vs bxc4),
// yields ErrNoMatch unless its exact spelling settles it.
func (r *Resolver) Resolve(token string) (rules.Move, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return rules.Move{}, ErrNoMatch
	}

	lower := strings.ToLower(token)
	if m, ok := r.byUCI[lower]; ok {
		return m, nil
	}
	if m, ok := r.san(lower, token); ok {
		return m, nil
	}
	if m, ok := r.san(stripSuffix(lower), stripSuffix(token)); ok {
		return m, nil
	}

	return rules.Move{}, ErrNoMatch
}

func (r *Resolver) san(key, exact string) (rules.Move, bool) {
	candidates := r.bySAN[key]
	switch len(candidates) {
	case 0:
		return rules.Move{}, false
	case 1:
		return candidates[0], true
	}
	for _, m := range candidates {
		if m.SAN == exact {
			return m, true
		}
	}
	return rules.Move{}, false
}

// Resolve is a convenience wrapper for a single lookup.
func Resolve(token string, legal []rules.Move) (rules.Move, error) {
	return New(legal).Resolve(token)
}

func stripSuffix(s string) string {
	return strings.Map(func(c rune) rune {
		switch c {
		case '+', '#', '!', '?':
			return -1
		}
		return c
	}, s)
}
