package bitmap

import (
	"fmt"

	"pixbuf/buffer"
)

// Interpret returns the pixel data re-encoded as pt.
//
//	src \ dst  mono          tri              quad
//	mono       unsupported   place channel    place channel, alpha 0xFF
//	tri        extract       reorder          expand, alpha 0xFF
//	quad       extract       drop alpha       unsupported
//
// Colour channels the source lacks are zero. Conversions that would carry no
// source channel into the destination return ErrUnsupportedConversion.
func (b *Bitmap) Interpret(pt PixelType) (*buffer.Buffer, error) {
	if pt == b.pixelType {
		return b.buf.Clone(), nil
	}
	if err := b.checkStorage(); err != nil {
		return nil, err
	}

	switch b.pixelType.Category() {
	case CategoryMono:
		return b.interpretMonoTo(pt)
	case CategoryTri:
		return b.interpretTriTo(pt)
	case CategoryQuad:
		return b.interpretQuadTo(pt)
	}
	return nil, b.unsupported(pt)
}

func (b *Bitmap) interpretMonoTo(pt PixelType) (*buffer.Buffer, error) {
	switch pt.Category() {
	case CategoryTri, CategoryQuad:
		return b.remap(pt)
	}
	return nil, b.unsupported(pt)
}

func (b *Bitmap) interpretTriTo(pt PixelType) (*buffer.Buffer, error) {
	switch pt.Category() {
	case CategoryMono, CategoryTri, CategoryQuad:
		return b.remap(pt)
	}
	return nil, b.unsupported(pt)
}

func (b *Bitmap) interpretQuadTo(pt PixelType) (*buffer.Buffer, error) {
	switch pt.Category() {
	case CategoryMono, CategoryTri:
		return b.remap(pt)
	}
	return nil, b.unsupported(pt)
}

// remap builds every destination pixel from the source channel of the same
// kind. A missing alpha channel is opaque, a missing colour channel is zero.
func (b *Bitmap) remap(pt PixelType) (*buffer.Buffer, error) {
	src, dst := layouts[b.pixelType], layouts[pt]

	from := make([]int, dst.width)
	fill := make([]byte, dst.width)
	carried := 0
	for ch := range numChannels {
		d := dst.offsets[ch]
		if d < 0 {
			continue
		}
		from[d] = int(src.offsets[ch])
		if from[d] >= 0 {
			carried++
		} else if ch == chA {
			fill[d] = 0xFF
		}
	}
	if carried == 0 {
		return nil, b.unsupported(pt)
	}

	n := b.size.Area()
	out := buffer.New(n * dst.width)
	in, o := b.buf.Bytes(), out.Bytes()
	for i := range n {
		sp := in[i*src.width : (i+1)*src.width]
		dp := o[i*dst.width : (i+1)*dst.width]
		for j, f := range from {
			if f < 0 {
				dp[j] = fill[j]
			} else {
				dp[j] = sp[f]
			}
		}
	}

	return out, nil
}

func (b *Bitmap) unsupported(pt PixelType) error {
	return fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, b.pixelType, pt)
}
