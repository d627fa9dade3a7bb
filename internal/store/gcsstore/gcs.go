// Package gcsstore implements a Google Cloud Storage backend.
package gcsstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/discochess/arena/internal/codec"
	"github.com/discochess/arena/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store keeps one object per game under prefix/games/ in a bucket.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
	codec  codec.Codec

	clientOpts []option.ClientOption
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// WithEndpoint points the client at an emulator such as fake-gcs-server.
// Authentication is disabled.
func WithEndpoint(endpoint string) Option {
	return func(s *Store) {
		s.clientOpts = append(s.clientOpts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
}

// New creates a new GCS store. The bucket must already exist.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	s := &Store{codec: c}
	for _, opt := range opts {
		opt(s)
	}

	client, err := storage.NewClient(ctx, s.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}
	s.client = client
	s.bucket = client.Bucket(bucketName)
	return s, nil
}

// WriteGame compresses data and uploads it as a single object.
func (s *Store) WriteGame(ctx context.Context, id string, data []byte) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}
	encoded, err := codec.Encode(s.codec, data)
	if err != nil {
		return fmt.Errorf("encoding game %s: %w", id, err)
	}

	w := s.bucket.Object(s.gameKey(id)).NewWriter(ctx)
	if s.codec.Extension() == "" {
		w.ContentType = "application/json"
	}
	if _, err := io.Copy(w, bytes.NewReader(encoded)); err != nil {
		w.Close()
		return fmt.Errorf("uploading game %s: %w", id, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("uploading game %s: %w", id, err)
	}
	return nil
}

// ReadGame downloads and decompresses the record of a game.
func (s *Store) ReadGame(ctx context.Context, id string) ([]byte, error) {
	if store.ValidateID(id) != nil {
		return nil, store.ErrNotFound
	}

	reader, err := s.bucket.Object(s.gameKey(id)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading game %s: %w", id, err)
	}
	defer reader.Close()

	data, err := codec.Decode(s.codec, reader)
	if err != nil {
		return nil, fmt.Errorf("decoding game %s: %w", id, err)
	}
	return data, nil
}

// ListGames iterates the objects under the games prefix.
func (s *Store) ListGames(ctx context.Context) ([]string, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: s.gamesPrefix()})

	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing games: %w", err)
		}
		names = append(names, attrs.Name)
	}
	return s.idsFromNames(names), nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) gamesPrefix() string {
	return s.prefix + "games/"
}

// gameKey returns the full object key for a game.
func (s *Store) gameKey(id string) string {
	return s.gamesPrefix() + store.RecordName(id, s.codec.Extension())
}

func (s *Store) idsFromNames(names []string) []string {
	var ids []string
	for _, name := range names {
		if !strings.HasPrefix(name, s.gamesPrefix()) {
			continue
		}
		if id, ok := store.ParseRecordName(path.Base(name), s.codec.Extension()); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
