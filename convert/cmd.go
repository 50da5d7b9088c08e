package convert

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"pixbuf/bitmap"
	"pixbuf/parallel"
	"pixbuf/rawfile"

	"github.com/alecthomas/kong"
)

type CLICmd struct {
	Scan      string           `help:"Source folder to scan for stored bitmaps" default:"."`
	Dest      string           `help:"Destination folder for converted bitmaps. Relative to scan dir if not absolute. If same as scan dir, will overwrite source files." default:"converted"`
	To        string           `help:"Target pixel type" enum:"alpha,red,green,blue,rgb,bgr,rgba" required:""`
	Compress  bool             `help:"Store pixel data zstd compressed" default:"false"`
	PixelType bitmap.PixelType `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Scan, c.Dest, err = rawfile.Dirs(c.Scan, c.Dest); err != nil {
		return err
	}

	if c.PixelType, err = bitmap.ParsePixelType(c.To); err != nil {
		return err
	}

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	names, err := rawfile.List(c.Scan)
	if err != nil {
		return err
	}

	var processedCount, errCount atomic.Uint64
	for _, name := range names {
		worker(func(fileName string) parallel.Task {
			return func() error {
				filePath := filepath.Join(c.Scan, fileName)
				logger := slog.Default().With("file", filePath)

				if err := c.convert(logger, filePath, filepath.Join(c.Dest, fileName)); err != nil {
					errCount.Add(1)
					logger.Error("could not convert bitmap", "error", err)
					return err
				}
				processedCount.Add(1)
				return nil
			}
		}(name))
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

func (c *CLICmd) convert(logger *slog.Logger, src, dest string) error {
	bm, err := rawfile.Load(src)
	if err != nil {
		return err
	}

	logger.Info("converting", "from", bm.PixelType(), "to", c.PixelType, "size", bm.Size())
	buf, err := bm.Interpret(c.PixelType)
	if err != nil {
		return fmt.Errorf("could not convert %s to %s: %w", bm.PixelType(), c.PixelType, err)
	}

	out, err := bitmap.New(buf, bm.Size(), c.PixelType)
	if err != nil {
		return err
	}

	return rawfile.Save(dest, out, rawfile.Options{Compress: c.Compress})
}
