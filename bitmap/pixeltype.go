package bitmap

import (
	"fmt"
	"strings"
)

// PixelType describes how the channels of one pixel are laid out in bytes.
type PixelType uint8

const (
	Invalid PixelType = iota
	Alpha
	Red
	Green
	Blue
	Rgb
	Bgr
	Rgba
)

// Category classifies pixel types by byte width.
type Category int

const (
	CategoryUnknown Category = 0
	CategoryMono    Category = 1
	CategoryTri     Category = 3
	CategoryQuad    Category = 4
)

type channel uint8

const (
	chR channel = iota
	chG
	chB
	chA
	numChannels
)

// layout maps every channel to its byte offset within a pixel, -1 if absent.
type layout struct {
	name    string
	width   int
	offsets [numChannels]int8
}

var layouts = map[PixelType]layout{
	Alpha: {name: "alpha", width: 1, offsets: [numChannels]int8{-1, -1, -1, 0}},
	Red:   {name: "red", width: 1, offsets: [numChannels]int8{0, -1, -1, -1}},
	Green: {name: "green", width: 1, offsets: [numChannels]int8{-1, 0, -1, -1}},
	Blue:  {name: "blue", width: 1, offsets: [numChannels]int8{-1, -1, 0, -1}},
	Rgb:   {name: "rgb", width: 3, offsets: [numChannels]int8{0, 1, 2, -1}},
	Bgr:   {name: "bgr", width: 3, offsets: [numChannels]int8{2, 1, 0, -1}},
	Rgba:  {name: "rgba", width: 4, offsets: [numChannels]int8{0, 1, 2, 3}},
}

// PixelTypes lists every known pixel type.
var PixelTypes = []PixelType{Alpha, Red, Green, Blue, Rgb, Bgr, Rgba}

// PixelTypeNames is the comma separated list of names accepted by ParsePixelType.
const PixelTypeNames = "alpha,red,green,blue,rgb,bgr,rgba"

// PixelLength returns the number of bytes per pixel, 0 for unknown types.
func PixelLength(pt PixelType) int {
	return layouts[pt].width
}

// Category returns the byte width class of pt.
func (pt PixelType) Category() Category {
	return Category(PixelLength(pt))
}

// Valid reports whether pt is a known pixel type.
func (pt PixelType) Valid() bool {
	_, ok := layouts[pt]
	return ok
}

func (pt PixelType) String() string {
	if l, ok := layouts[pt]; ok {
		return l.name
	}
	return fmt.Sprintf("PixelType(%d)", uint8(pt))
}

// ParsePixelType returns the pixel type with the given name.
func ParsePixelType(s string) (PixelType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, pt := range PixelTypes {
		if layouts[pt].name == s {
			return pt, nil
		}
	}
	return Invalid, fmt.Errorf("unknown pixel type %q, should be one of %s", s, PixelTypeNames)
}

// DataLength returns the number of bytes an image of the given size and
// pixel type occupies. Negative dimensions count as zero.
func DataLength(size Size, pt PixelType) int {
	if size.Width <= 0 || size.Height <= 0 {
		return 0
	}
	return size.Width * size.Height * PixelLength(pt)
}
