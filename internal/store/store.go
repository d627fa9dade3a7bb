// Package store defines the persistence backend for finished game records.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a game record does not exist in the store.
var ErrNotFound = errors.New("store: game not found")

// ErrInvalidID is returned for ids that cannot name a record.
var ErrInvalidID = errors.New("store: invalid game id")

// Store defines the interface for storage backends.
// Implementations handle path formats, compression and storage details internally.
type Store interface {
	// WriteGame stores the encoded record for a game, replacing any previous one.
	WriteGame(ctx context.Context, id string, data []byte) error

	// ReadGame reads the encoded record of a game.
	ReadGame(ctx context.Context, id string) ([]byte, error)

	// ListGames returns the ids of all stored games in no particular order.
	ListGames(ctx context.Context) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}

// RecordExt is the extension of an uncompressed game record.
const RecordExt = ".json"

// ValidateID rejects ids that are empty or could escape a key prefix.
func ValidateID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// RecordName returns the file or object name for a game record given the
// codec extension ("" for none).
func RecordName(id, codecExt string) string {
	name := id + RecordExt
	if codecExt != "" {
		name += "." + codecExt
	}
	return name
}

// ParseRecordName is the inverse of RecordName. It reports false for names
// that are not game records written with codecExt.
func ParseRecordName(name, codecExt string) (string, bool) {
	suffix := RecordExt
	if codecExt != "" {
		suffix += "." + codecExt
	}
	if !strings.HasSuffix(name, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(name, suffix)
	if ValidateID(id) != nil {
		return "", false
	}
	return id, true
}
