package provider

import (
	"fmt"
	"strings"
)

// Prompt renders the user message sent to network-backed providers.
func Prompt(req Request) string {
	pgn := req.PGN
	if strings.TrimSpace(pgn) == "" {
		pgn = "(opening)"
	}

	lines := []string{
		"You are a careful chess engine.",
		fmt.Sprintf("You play %s.", req.Color),
		fmt.Sprintf("Current ply: %d", req.Ply),
		fmt.Sprintf("Current FEN: %s", req.FEN),
		fmt.Sprintf("Current PGN: %s", pgn),
		fmt.Sprintf("Opponent: %s", req.Opponent),
		fmt.Sprintf("Legal UCI moves: %s", strings.Join(req.LegalUCI, ", ")),
		fmt.Sprintf("Legal SAN moves: %s", strings.Join(req.LegalSAN, ", ")),
		`Answer with JSON only and nothing else: {"move":"<UCI or SAN>"}`,
		`Examples: {"move":"e2e4"} or {"move":"Nf3"}`,
	}
	return strings.Join(lines, "\n")
}
