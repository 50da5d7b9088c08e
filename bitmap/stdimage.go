package bitmap

import (
	"fmt"
	"image"

	"pixbuf/buffer"

	"golang.org/x/image/draw"
)

// FromStdImage converts img to a bitmap of type pt. Colours are taken
// non-premultiplied; single colour channel types keep that channel only.
func FromStdImage(img image.Image, pt PixelType) (*Bitmap, error) {
	if !pt.Valid() {
		return nil, fmt.Errorf("%w: image to %s", ErrUnsupportedConversion, pt)
	}

	size := SizeOf(img.Bounds())
	rgba, err := New(buffer.Wrap(nrgbaPix(img, size)), size, Rgba)
	if err != nil || pt == Rgba {
		return rgba, err
	}

	buf, err := rgba.Interpret(pt)
	if err != nil {
		return nil, err
	}
	return New(buf, size, pt)
}

// nrgbaPix returns the pixels of img as tightly packed non-premultiplied RGBA.
// NRGBA sources are copied as is, since drawing them would premultiply.
func nrgbaPix(img image.Image, size Size) []byte {
	src, ok := img.(*image.NRGBA)
	if !ok {
		dst := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
		return dst.Pix
	}

	line := 4 * size.Width
	pix := make([]byte, line*size.Height)
	for y := range size.Height {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		copy(pix[y*line:], src.Pix[off:off+line])
	}
	return pix
}

// StdImage returns a copy of b as an image: *image.Alpha for Alpha,
// *image.Gray for the single colour channel types and *image.NRGBA otherwise.
func (b *Bitmap) StdImage() (image.Image, error) {
	if err := b.checkStorage(); err != nil {
		return nil, err
	}

	r := image.Rect(0, 0, b.size.Width, b.size.Height)
	switch b.pixelType {
	case Alpha:
		img := image.NewAlpha(r)
		copy(img.Pix, b.buf.Bytes())
		return img, nil
	case Red, Green, Blue:
		img := image.NewGray(r)
		copy(img.Pix, b.buf.Bytes())
		return img, nil
	case Rgba:
		img := image.NewNRGBA(r)
		copy(img.Pix, b.buf.Bytes())
		return img, nil
	case Rgb, Bgr:
		buf, err := b.Interpret(Rgba)
		if err != nil {
			return nil, err
		}
		return &image.NRGBA{Pix: buf.Bytes(), Stride: 4 * b.size.Width, Rect: r}, nil
	}

	return nil, fmt.Errorf("%w: %s to image", ErrUnsupportedConversion, b.pixelType)
}
