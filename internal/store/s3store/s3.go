// Package s3store implements an AWS S3 storage backend.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/discochess/arena/internal/codec"
	"github.com/discochess/arena/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// API is the subset of the S3 client used by the store.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// Store keeps one object per game under prefix/games/ in a bucket.
type Store struct {
	client API
	bucket string
	prefix string
	codec  codec.Codec

	region   string
	endpoint string
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

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *Store) { s.region = region }
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like MinIO).
func WithEndpoint(endpoint string) Option {
	return func(s *Store) { s.endpoint = endpoint }
}

// WithClient replaces the S3 client, mainly for tests.
func WithClient(client API) Option {
	return func(s *Store) { s.client = client }
}

// New creates a new S3 store. The bucket must already exist.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	s := &Store{
		bucket: bucketName,
		codec:  c,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client != nil {
		return s, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if s.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
			o.UsePathStyle = true
		}
	})
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

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.gameKey(id)),
		Body:        bytes.NewReader(encoded),
		ContentType: aws.String(s.contentType()),
	})
	if err != nil {
		return fmt.Errorf("uploading game %s: %w", id, err)
	}
	return nil
}

// ReadGame downloads and decompresses the record of a game.
func (s *Store) ReadGame(ctx context.Context, id string) ([]byte, error) {
	if store.ValidateID(id) != nil {
		return nil, store.ErrNotFound
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.gameKey(id)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading game %s: %w", id, err)
	}
	defer result.Body.Close()

	data, err := codec.Decode(s.codec, result.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding game %s: %w", id, err)
	}
	return data, nil
}

// ListGames pages through the objects under the games prefix.
func (s *Store) ListGames(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.gamesPrefix()),
	})

	var ids []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing games: %w", err)
		}
		for _, obj := range page.Contents {
			if id, ok := store.ParseRecordName(path.Base(aws.ToString(obj.Key)), s.codec.Extension()); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// Close releases resources.
func (s *Store) Close() error {
	// S3 client doesn't need explicit closing.
	return nil
}

func (s *Store) gamesPrefix() string {
	return s.prefix + "games/"
}

// gameKey returns the full object key for a game.
func (s *Store) gameKey(id string) string {
	return s.gamesPrefix() + store.RecordName(id, s.codec.Extension())
}

func (s *Store) contentType() string {
	if s.codec.Extension() == "" {
		return "application/json"
	}
	return "application/octet-stream"
}
