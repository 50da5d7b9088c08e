package bitmap

import (
	"errors"

	"pixbuf/buffer"
)

var (
	// ErrOutOfRange is returned when a region or position falls outside the image.
	ErrOutOfRange = buffer.ErrOutOfRange

	// ErrUnsupportedConversion is returned when no conversion between two
	// pixel types is defined.
	ErrUnsupportedConversion = errors.New("bitmap: unsupported conversion")

	// ErrSizeMismatch is returned when storage does not hold the declared image.
	ErrSizeMismatch = errors.New("bitmap: storage size mismatch")
)
