// Package bitmap implements a raw pixel buffer and the conversions between
// its 1, 3 and 4 byte per pixel encodings.
//
// Pixel data is stored row by row without padding: the pixel at (x, y)
// starts at byte (y*Width + x) * PixelLength(PixelType). All operations that
// produce pixel data allocate a fresh buffer; the source is never mutated.
package bitmap

import (
	"fmt"
	"image"

	"pixbuf/buffer"
)

// Image exposes the metadata of an image.
type Image interface {
	PixelType() PixelType
	Size() Size
}

// Source yields ownership of exactly n bytes per Read call.
type Source interface {
	Read(n int) (*buffer.Buffer, error)
}

// Bitmap is a rectangular image backed by one owned buffer.
type Bitmap struct {
	buf       *buffer.Buffer
	pixelType PixelType
	size      Size
}

var _ Image = (*Bitmap)(nil)

// FromImage mirrors the size and pixel type of img. The storage starts empty.
func FromImage(img Image) *Bitmap {
	return &Bitmap{
		buf:       &buffer.Buffer{},
		pixelType: img.PixelType(),
		size:      img.Size(),
	}
}

// New returns a bitmap that takes ownership of buf; buf is left empty.
// A non-empty buf must hold exactly DataLength(size, pt) bytes.
func New(buf *buffer.Buffer, size Size, pt PixelType) (*Bitmap, error) {
	if size.Width < 0 || size.Height < 0 {
		return nil, fmt.Errorf("%w: negative size %s", ErrSizeMismatch, size)
	}
	if n := DataLength(size, pt); !buf.IsEmpty() && buf.Len() != n {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %s %s", ErrSizeMismatch, buf.Len(), n, size, pt)
	}

	return &Bitmap{
		buf:       buf.Move(),
		pixelType: pt,
		size:      size,
	}, nil
}

// FromStream reads the pixel data of a size image of type pt from src.
func FromStream(src Source, size Size, pt PixelType) (*Bitmap, error) {
	if size.Width < 0 || size.Height < 0 {
		return nil, fmt.Errorf("%w: negative size %s", ErrSizeMismatch, size)
	}
	n := DataLength(size, pt)
	buf, err := src.Read(n)
	if err != nil {
		return nil, fmt.Errorf("could not read %d bytes of %s %s pixels: %w", n, size, pt, err)
	}
	return New(buf, size, pt)
}

// Clone returns a deep copy of b.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		buf:       b.buf.Clone(),
		pixelType: b.pixelType,
		size:      b.size,
	}
}

// Move transfers the contents of b to a new bitmap and leaves b empty.
func (b *Bitmap) Move() *Bitmap {
	moved := &Bitmap{
		buf:       b.buf.Move(),
		pixelType: b.pixelType,
		size:      b.size,
	}
	b.size = Size{}
	return moved
}

func (b *Bitmap) PixelType() PixelType {
	return b.pixelType
}

func (b *Bitmap) Size() Size {
	return b.size
}

// Storage returns the buffer owned by b. It must not be mutated while b is in use.
func (b *Bitmap) Storage() *buffer.Buffer {
	return b.buf
}

// IsEmpty reports whether the image has no pixels.
func (b *Bitmap) IsEmpty() bool {
	return b.size.Width == 0 || b.size.Height == 0
}

// InterpretedLength returns the byte length of the image once encoded as pt.
func (b *Bitmap) InterpretedLength(pt PixelType) int {
	return DataLength(b.size, pt)
}

func (b *Bitmap) checkStorage() error {
	if want := DataLength(b.size, b.pixelType); b.buf.Len() != want {
		return fmt.Errorf("%w: storage holds %d bytes, want %d", ErrSizeMismatch, b.buf.Len(), want)
	}
	return nil
}

// Chunk copies the region of the given size whose top left corner is origin.
func (b *Bitmap) Chunk(origin image.Point, size Size) (*buffer.Buffer, error) {
	// Compare against the remaining extent so huge sizes cannot overflow.
	if origin.X < 0 || origin.Y < 0 || origin.X > b.size.Width || origin.Y > b.size.Height ||
		size.Width < 0 || size.Height < 0 ||
		size.Width > b.size.Width-origin.X || size.Height > b.size.Height-origin.Y {
		return nil, fmt.Errorf("%w: chunk %s at %v exceeds %s", ErrOutOfRange, size, origin, b.size)
	}
	if err := b.checkStorage(); err != nil {
		return nil, err
	}

	pixelLength := PixelLength(b.pixelType)
	lineData := size.Width * pixelLength
	stride := b.size.Width * pixelLength
	pos := (origin.X + origin.Y*b.size.Width) * pixelLength

	chunk := buffer.New(DataLength(size, b.pixelType))
	if chunk.IsEmpty() {
		return chunk, nil
	}
	dst := chunk.Bytes()
	for row := range size.Height {
		line, err := b.buf.Slice(pos, lineData)
		if err != nil {
			return nil, err
		}
		copy(dst[row*lineData:], line)
		pos += stride
	}

	return chunk, nil
}

// Pixel copies the bytes of the pixel at position.
func (b *Bitmap) Pixel(position image.Point) (*buffer.Buffer, error) {
	if !position.In(image.Rect(0, 0, b.size.Width, b.size.Height)) {
		return nil, fmt.Errorf("%w: pixel %v outside %s", ErrOutOfRange, position, b.size)
	}
	if err := b.checkStorage(); err != nil {
		return nil, err
	}

	pixelLength := PixelLength(b.pixelType)
	data, err := b.buf.Slice((position.Y*b.size.Width+position.X)*pixelLength, pixelLength)
	if err != nil {
		return nil, err
	}
	return buffer.Wrap(append([]byte(nil), data...)), nil
}
