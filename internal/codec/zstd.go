package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses records with zstd. Game records are small, so the encoder
// runs single-threaded.
type Zstd struct{}

var _ Codec = Zstd{}

func (Zstd) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

func (Zstd) Writer(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
}

func (Zstd) Extension() string { return "zst" }
