package gcsstore

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/discochess/arena/internal/codec"
	"github.com/discochess/arena/internal/store"
)

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := &Store{}
			WithPrefix(tt.input)(s)
			if s.prefix != tt.want {
				t.Errorf("prefix = %q, want %q", s.prefix, tt.want)
			}
		})
	}
}

func TestWithEndpoint(t *testing.T) {
	s := &Store{}
	WithEndpoint("http://localhost:4443/storage/v1/")(s)
	if len(s.clientOpts) != 2 {
		t.Errorf("clientOpts = %d, want endpoint and no-auth options", len(s.clientOpts))
	}
}

func TestStore_gameKey(t *testing.T) {
	tests := []struct {
		prefix string
		c      codec.Codec
		want   string
	}{
		{"", codec.None{}, "games/g1.json"},
		{"data/v1/", codec.Zstd{}, "data/v1/games/g1.json.zst"},
	}
	for _, tt := range tests {
		s := &Store{prefix: tt.prefix, codec: tt.c}
		if got := s.gameKey("g1"); got != tt.want {
			t.Errorf("gameKey() = %q, want %q", got, tt.want)
		}
	}
}

func TestStore_idsFromNames(t *testing.T) {
	s := &Store{prefix: "arena/", codec: codec.Gzip{}}
	names := []string{
		"arena/games/a.json.gz",
		"arena/games/b.json.gz",
		"arena/games/c.json",    // wrong codec
		"arena/games/notes.txt", // not a record
		"other/games/d.json.gz", // outside prefix
	}

	got := s.idsFromNames(names)
	if strings.Join(got, ",") != "a,b" {
		t.Errorf("idsFromNames() = %v, want [a b]", got)
	}
}

func TestStore_InvalidIDs(t *testing.T) {
	s := &Store{codec: codec.None{}}
	ctx := context.Background()

	if err := s.WriteGame(ctx, "a/b", nil); !errors.Is(err, store.ErrInvalidID) {
		t.Errorf("WriteGame() error = %v, want ErrInvalidID", err)
	}
	if _, err := s.ReadGame(ctx, ".."); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadGame() error = %v, want ErrNotFound", err)
	}
}
