package region

import (
	"encoding/hex"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"pixbuf/bitmap"
	"pixbuf/rawfile"

	"github.com/alecthomas/kong"
)

type ChunkCmd struct {
	File     string `arg:"" help:"Source bitmap" type:"existingfile"`
	X        int    `help:"Left edge of the region" default:"0"`
	Y        int    `help:"Top edge of the region" default:"0"`
	Width    int    `help:"Region width" required:""`
	Height   int    `help:"Region height" required:""`
	Out      string `help:"Destination bitmap file. Defaults to the source name suffixed with the region"`
	Compress bool   `help:"Store pixel data zstd compressed" default:"false"`
}

func (c *ChunkCmd) Validate(kctx *kong.Context) error {
	switch {
	case c.X < 0 || c.Y < 0:
		return fmt.Errorf("invalid region origin: %d,%d", c.X, c.Y)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid region size: %dx%d", c.Width, c.Height)
	}

	if c.Out == "" {
		base := c.File[:len(c.File)-len(filepath.Ext(c.File))]
		c.Out = fmt.Sprintf("%s-%d_%d-%dx%d%s", base, c.X, c.Y, c.Width, c.Height, rawfile.Ext)
	}
	return nil
}

func (c *ChunkCmd) Run() error {
	logger := slog.Default().With("file", c.File)

	bm, err := rawfile.Load(c.File)
	if err != nil {
		return err
	}

	size := bitmap.Size{Width: c.Width, Height: c.Height}
	logger.Info("extracting", "x", c.X, "y", c.Y, "size", size, "image", bm.Size())
	buf, err := bm.Chunk(image.Pt(c.X, c.Y), size)
	if err != nil {
		return fmt.Errorf("could not extract region: %w", err)
	}

	chunk, err := bitmap.New(buf, size, bm.PixelType())
	if err != nil {
		return err
	}

	if err := rawfile.Save(c.Out, chunk, rawfile.Options{Compress: c.Compress}); err != nil {
		return err
	}
	logger.Info("saved", "to", c.Out)
	return nil
}

type PixelCmd struct {
	File string `arg:"" help:"Source bitmap" type:"existingfile"`
	X    int    `help:"Pixel column" default:"0"`
	Y    int    `help:"Pixel row" default:"0"`
}

func (c *PixelCmd) Run() error {
	bm, err := rawfile.Load(c.File)
	if err != nil {
		return err
	}

	pixel, err := bm.Pixel(image.Pt(c.X, c.Y))
	if err != nil {
		return fmt.Errorf("could not read pixel: %w", err)
	}

	slog.Info("pixel", "file", c.File, "x", c.X, "y", c.Y, "type", bm.PixelType(),
		"bytes", hex.EncodeToString(pixel.Bytes()))
	return nil
}
