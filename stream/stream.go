// Package stream reads raw pixel data into owned buffers.
package stream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"pixbuf/buffer"

	"github.com/klauspost/compress/zstd"
)

// ErrClosed is returned by Read after Close.
var ErrClosed = errors.New("stream: closed")

// Reads up to eagerLength bytes are allocated up front.
const eagerLength = 1 << 20

// Reader hands out consecutive runs of bytes from an underlying reader.
type Reader struct {
	r     io.Reader
	close func()
}

// NewReader reads raw bytes from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, close: func() {}}
}

// NewZstdReader decompresses a zstd stream read from r.
func NewZstdReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		return nil, fmt.Errorf("could not open zstd stream: %w", err)
	}
	return &Reader{r: dec, close: dec.Close}, nil
}

// Read consumes exactly n bytes and returns them in a new buffer. A short
// stream yields an error wrapping io.EOF or io.ErrUnexpectedEOF.
func (s *Reader) Read(n int) (*buffer.Buffer, error) {
	if s.r == nil {
		return nil, ErrClosed
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read length %d", buffer.ErrOutOfRange, n)
	}

	if n <= eagerLength {
		buf := buffer.New(n)
		if got, err := io.ReadFull(s.r, buf.Bytes()); err != nil {
			return nil, fmt.Errorf("could not read %d bytes, got %d: %w", n, got, err)
		}
		return buf, nil
	}

	// Grow with the data actually delivered, a declared length is untrusted.
	var data bytes.Buffer
	data.Grow(eagerLength)
	got, err := io.CopyN(&data, s.r, int64(n))
	if err != nil {
		if errors.Is(err, io.EOF) && got > 0 {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("could not read %d bytes, got %d: %w", n, got, err)
	}
	return buffer.Wrap(data.Bytes()), nil
}

// Close releases the resources held by the reader. The underlying reader is
// not closed.
func (s *Reader) Close() error {
	if s.r == nil {
		return nil
	}
	s.close()
	s.r = nil
	return nil
}
