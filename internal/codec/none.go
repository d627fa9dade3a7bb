package codec

import "io"

// None stores records uncompressed.
type None struct{}

var _ Codec = None{}

func (None) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

func (None) Writer(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (None) Extension() string { return "" }

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
