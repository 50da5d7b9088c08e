package bitmap

import (
	"fmt"
	"image"
)

// Size is the width and height of an image in pixels.
type Size struct {
	Width  int
	Height int
}

// SizeOf returns the size of r.
func SizeOf(r image.Rectangle) Size {
	return Size{Width: r.Dx(), Height: r.Dy()}
}

// Area returns the pixel count, 0 if either dimension is not positive.
func (s Size) Area() int {
	if s.Width <= 0 || s.Height <= 0 {
		return 0
	}
	return s.Width * s.Height
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseSize parses a "WIDTHxHEIGHT" string.
func ParseSize(s string) (Size, error) {
	var size Size
	var rest string
	n, err := fmt.Sscanf(s, "%dx%d%s", &size.Width, &size.Height, &rest)
	if n < 2 {
		return Size{}, fmt.Errorf("invalid size %q, should be WIDTHxHEIGHT: %w", s, err)
	} else if n > 2 {
		return Size{}, fmt.Errorf("invalid size %q: trailing %q", s, rest)
	}
	if size.Width < 0 || size.Height < 0 {
		return Size{}, fmt.Errorf("invalid size %q: negative dimension", s)
	}
	return size, nil
}
