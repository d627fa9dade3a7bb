package codec

import (
	"compress/gzip"
	"io"
)

// Gzip compresses records with gzip. The zero value uses the default level.
type Gzip struct {
	Level int
}

var _ Codec = Gzip{}

func (Gzip) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

func (g Gzip) Writer(w io.Writer) (io.WriteCloser, error) {
	if g.Level == 0 {
		return gzip.NewWriter(w), nil
	}
	return gzip.NewWriterLevel(w, g.Level)
}

func (Gzip) Extension() string { return "gz" }
