// Package extract pulls a single candidate move token out of free-form
// provider output.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencePattern = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")
	uciPattern   = regexp.MustCompile(`(?i)\b([a-h][1-8][a-h][1-8][qrbn]?)\b`)
	sanPattern   = regexp.MustCompile(`\b(O-O-O|O-O|[KQRBN]?[a-h]?[1-8]?x?[a-h][1-8](?:=[QRBN])?[+#]?)\b`)
)

// Token returns the most trustworthy move candidate found in text.
// Structured JSON wins over coordinate notation, which wins over algebraic
// notation; failing all of them the first word is returned. Token never fails
// and returns an empty string only for blank input.
func Token(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	if move, ok := jsonMove(trimmed); ok {
		return move
	}

	if m := uciPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := sanPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}

	return strings.Fields(trimmed)[0]
}

// jsonMove parses {"move": "..."} from the first fenced block, or from the
// whole text when there is none.
func jsonMove(text string) (string, bool) {
	candidate := text
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return "", false
	}
	move, ok := payload["move"].(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(move), true
}
