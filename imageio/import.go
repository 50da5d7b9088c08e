package imageio

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"pixbuf/bitmap"
	"pixbuf/parallel"
	"pixbuf/rawfile"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

type ImportCmd struct {
	Scan      string           `help:"Source folder to scan for images" default:"."`
	Dest      string           `help:"Destination folder for bitmaps. Relative to scan dir if not absolute." default:"bitmaps"`
	Type      string           `help:"Pixel type of the stored bitmaps" enum:"alpha,red,green,blue,rgb,bgr,rgba" default:"rgba"`
	Compress  bool             `help:"Store pixel data zstd compressed" default:"false"`
	PixelType bitmap.PixelType `kong:"-"`
}

func (c *ImportCmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Scan, c.Dest, err = rawfile.Dirs(c.Scan, c.Dest); err != nil {
		return err
	}

	if c.PixelType, err = bitmap.ParsePixelType(c.Type); err != nil {
		return err
	}

	return nil
}

func (c *ImportCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) == rawfile.Ext {
			continue
		}

		worker(func(fileName string) parallel.Task {
			return func() error {
				filePath := filepath.Join(c.Scan, fileName)
				logger := slog.Default().With("file", filePath)

				if err := c.importFile(logger, filePath, filepath.Join(c.Dest, rawfile.Rename(fileName))); err != nil {
					errCount.Add(1)
					logger.Error("could not import image", "error", err)
					return err
				}
				processedCount.Add(1)
				return nil
			}
		}(file.Name()))
	}

	err = wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if err != nil {
		return fmt.Errorf("error processing %d files: %w", errors, err)
	}
	return nil
}

func (c *ImportCmd) importFile(logger *slog.Logger, src, dest string) error {
	imgFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open image: %w", err)
	}
	defer func() {
		if close_err := imgFile.Close(); close_err != nil {
			logger.Error("could not close image", "error", close_err)
		}
	}()

	img, imgType, err := image.Decode(imgFile)
	if err != nil {
		return fmt.Errorf("could not decode image: %w", err)
	}

	logger.Info("importing", "format", imgType, "type", c.PixelType, "size", bitmap.SizeOf(img.Bounds()))
	bm, err := bitmap.FromStdImage(img, c.PixelType)
	if err != nil {
		return err
	}

	return rawfile.Save(dest, bm, rawfile.Options{Compress: c.Compress})
}
