// Package codec provides compression and decompression for persisted game records.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrUnknownCodec is returned by ByName for unsupported codec names.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec provides compression and decompression functionality.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

// ByName returns the codec configured by name: "none" (or ""), "gzip" or "zstd".
func ByName(name string) (Codec, error) {
	switch name {
	case "", "none":
		return None{}, nil
	case "gzip", "gz":
		return Gzip{}, nil
	case "zstd", "zst":
		return Zstd{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Encode compresses data in one shot.
func Encode(c Codec, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := c.Writer(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads r to the end and decompresses it.
func Decode(c Codec, r io.Reader) ([]byte, error) {
	reader, err := c.Reader(r)
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decompressing: %w", err)
	}
	return data, nil
}
