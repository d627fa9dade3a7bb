// Package diskstore implements a disk-based filesystem storage backend.
package diskstore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/discochess/arena/internal/codec"
	"github.com/discochess/arena/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store keeps one file per game under root.
type Store struct {
	root  string
	codec codec.Codec
}

// New creates a new disk store rooted at the given directory, creating it
// if needed. The codec handles compression/decompression.
func New(root string, c codec.Codec) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating root directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &Store{
		root:  root,
		codec: c,
	}, nil
}

// WriteGame compresses data and writes it atomically.
func (s *Store) WriteGame(ctx context.Context, id string, data []byte) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	encoded, err := codec.Encode(s.codec, data)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-"+id+"-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return fmt.Errorf("writing game: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing game: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.gamePath(id)); err != nil {
		return fmt.Errorf("renaming game file: %w", err)
	}
	return nil
}

// ReadGame reads and decompresses the record of a game.
func (s *Store) ReadGame(ctx context.Context, id string) ([]byte, error) {
	if store.ValidateID(id) != nil {
		return nil, store.ErrNotFound
	}
	// Check for cancellation before starting I/O.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	compressed, err := os.ReadFile(s.gamePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading game: %w", err)
	}

	data, err := codec.Decode(s.codec, bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("decoding game %s: %w", id, err)
	}
	return data, nil
}

// ListGames returns the ids of the records under root.
func (s *Store) ListGames(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading root directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := store.ParseRecordName(entry.Name(), s.codec.Extension()); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// gamePath returns the filesystem path for a game.
func (s *Store) gamePath(id string) string {
	return filepath.Join(s.root, store.RecordName(id, s.codec.Extension()))
}
