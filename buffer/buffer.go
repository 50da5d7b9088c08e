// Package buffer provides an exclusively owned, length-checked block of bytes.
package buffer

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an index or range falls outside a buffer.
var ErrOutOfRange = errors.New("buffer: out of range")

// Buffer owns a fixed-size block of bytes. A nil or zero Buffer is empty.
//
// A Buffer is never copied implicitly: Move transfers the block and leaves the
// source empty, Clone allocates a new block. Buffers are not safe for
// concurrent mutation.
type Buffer struct {
	data []byte
}

// New allocates a buffer of length bytes. Callers needing zeroed memory
// must call Wipe.
func New(length int) *Buffer {
	if length <= 0 {
		return &Buffer{}
	}
	return &Buffer{data: make([]byte, length)}
}

// FromString returns a buffer holding s followed by a terminating zero byte.
func FromString(s string) *Buffer {
	data := make([]byte, len(s)+1)
	copy(data, s)
	return &Buffer{data: data}
}

// Wrap takes ownership of b. The caller must not use b afterwards.
func Wrap(b []byte) *Buffer {
	if len(b) == 0 {
		return &Buffer{}
	}
	return &Buffer{data: b}
}

// Len returns the number of bytes held.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// IsEmpty reports whether the buffer holds no storage.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// Bytes returns the underlying storage. The slice stays owned by the buffer
// and becomes stale after Move.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// At returns the byte at index i.
func (b *Buffer) At(i int) (byte, error) {
	if i < 0 || i >= b.Len() {
		return 0, fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, b.Len())
	}
	return b.data[i], nil
}

// Set stores v at index i.
func (b *Buffer) Set(i int, v byte) error {
	if i < 0 || i >= b.Len() {
		return fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, i, b.Len())
	}
	b.data[i] = v
	return nil
}

// Slice returns the n bytes starting at off, sharing storage with b.
func (b *Buffer) Slice(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > b.Len()-n {
		return nil, fmt.Errorf("%w: range [%d, %d), length %d", ErrOutOfRange, off, off+n, b.Len())
	}
	return b.data[off : off+n : off+n], nil
}

// Move transfers the storage to a new buffer and leaves b empty.
func (b *Buffer) Move() *Buffer {
	if b == nil {
		return &Buffer{}
	}
	moved := &Buffer{data: b.data}
	b.data = nil
	return moved
}

// Clone returns a new buffer holding a copy of the bytes.
func (b *Buffer) Clone() *Buffer {
	if b.IsEmpty() {
		return &Buffer{}
	}
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Buffer{data: data}
}

// Wipe overwrites every byte with zero.
func (b *Buffer) Wipe() {
	if b == nil {
		return
	}
	clear(b.data)
}
