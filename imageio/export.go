package imageio

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"pixbuf/parallel"
	"pixbuf/rawfile"

	"github.com/alecthomas/kong"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

type ExportCmd struct {
	Scan   string `help:"Source folder to scan for stored bitmaps" default:"."`
	Dest   string `help:"Destination folder for exported images. Relative to scan dir if not absolute." default:"exported"`
	Format string `help:"Output image format" enum:"png,jpeg,gif,bmp,tiff" default:"png"`
}

func (c *ExportCmd) Validate(kctx *kong.Context) error {
	var err error
	c.Scan, c.Dest, err = rawfile.Dirs(c.Scan, c.Dest)
	return err
}

func (c *ExportCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
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

				bm, err := rawfile.Load(filePath)
				if err == nil {
					var img image.Image
					if img, err = bm.StdImage(); err == nil {
						logger.Info("exporting", "type", bm.PixelType(), "format", c.Format)
						err = export(img, c.Format, c.Dest, fileName)
					}
				}
				if err != nil {
					errCount.Add(1)
					logger.Error("could not export bitmap", "dir", c.Dest, "error", err)
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

// export encodes img next to the other exports under the bitmap's base name.
func export(img image.Image, format, destDir, srcName string) error {
	base := srcName[:len(srcName)-len(filepath.Ext(srcName))]
	return rawfile.WriteFile(filepath.Join(destDir, base+"."+format), func(w io.Writer) error {
		return encode(w, img, format)
	})
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "gif":
		return gif.Encode(w, img, nil)
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       exportBuffers,
		}
		return enc.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, nil)
	}
	return fmt.Errorf("unsupported export format: %s", format)
}

// pngBuffers shares PNG encoder scratch space between export workers.
type pngBuffers struct {
	pool sync.Pool
}

func (p *pngBuffers) Get() *png.EncoderBuffer {
	if buf, ok := p.pool.Get().(*png.EncoderBuffer); ok {
		return buf
	}
	return new(png.EncoderBuffer)
}

func (p *pngBuffers) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var exportBuffers = &pngBuffers{}
