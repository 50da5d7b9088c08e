package convert

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pixbuf/bitmap"
	"pixbuf/rawfile"
	"pixbuf/stream"

	"github.com/alecthomas/kong"
)

type WrapCmd struct {
	File      string           `arg:"" help:"Headerless raw pixel dump, row by row" type:"existingfile"`
	Size      string           `help:"Image size as WIDTHxHEIGHT" required:""`
	Type      string           `help:"Pixel type of the dump" enum:"alpha,red,green,blue,rgb,bgr,rgba" required:""`
	Zstd      bool             `help:"Dump is zstd compressed. Implied by a .zst extension" default:"false"`
	Out       string           `help:"Destination bitmap file. Defaults to the dump name with the bitmap extension"`
	Compress  bool             `help:"Store pixel data zstd compressed" default:"false"`
	ImageSize bitmap.Size      `kong:"-"`
	PixelType bitmap.PixelType `kong:"-"`
}

func (c *WrapCmd) Validate(kctx *kong.Context) error {
	var err error
	if c.ImageSize, err = bitmap.ParseSize(c.Size); err != nil {
		return err
	}
	if c.PixelType, err = bitmap.ParsePixelType(c.Type); err != nil {
		return err
	}

	name := c.File
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".zst") {
		c.Zstd = true
		name = strings.TrimSuffix(name, ext)
	}
	if c.Out == "" {
		c.Out = rawfile.Rename(name)
	}
	if c.Out == c.File {
		return fmt.Errorf("destination would overwrite dump %q", c.File)
	}

	return nil
}

func (c *WrapCmd) Run() error {
	logger := slog.Default().With("file", c.File)

	inFile, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("could not open dump %q: %w", c.File, err)
	}
	defer func() {
		if close_err := inFile.Close(); close_err != nil {
			logger.Error("could not close dump", "error", close_err)
		}
	}()

	var src *stream.Reader
	if c.Zstd {
		if src, err = stream.NewZstdReader(bufio.NewReader(inFile)); err != nil {
			return err
		}
	} else {
		src = stream.NewReader(bufio.NewReader(inFile))
	}
	defer src.Close()

	logger.Info("wrapping", "size", c.ImageSize, "type", c.PixelType, "zstd", c.Zstd)
	bm, err := bitmap.FromStream(src, c.ImageSize, c.PixelType)
	if err != nil {
		return fmt.Errorf("could not read dump %q: %w", c.File, err)
	}

	if _, err := src.Read(1); err == nil {
		logger.Warn("dump holds more data than the declared image, ignoring the rest")
	}

	if err := rawfile.Save(c.Out, bm, rawfile.Options{Compress: c.Compress}); err != nil {
		return err
	}
	logger.Info("saved", "to", c.Out)
	return nil
}
