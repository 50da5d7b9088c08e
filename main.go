package main

import (
	"log/slog"
	"os"

	"pixbuf/convert"
	"pixbuf/imageio"
	"pixbuf/parallel"
	"pixbuf/region"

	"github.com/alecthomas/kong"
)

type CLI struct {
	Workers  int    `help:"Number of parallel workers, 0 uses every CPU" default:"0" env:"PIXBUF_WORKERS"`
	LogLevel string `help:"Minimum level of logged messages" enum:"debug,info,warn,error" default:"info" env:"PIXBUF_LOG_LEVEL"`

	Convert convert.CLICmd    `cmd:"" help:"Convert stored bitmaps to another pixel type"`
	Wrap    convert.WrapCmd   `cmd:"" help:"Store a headerless raw pixel dump as a bitmap"`
	Chunk   region.ChunkCmd   `cmd:"" help:"Extract a rectangular region of a bitmap"`
	Pixel   region.PixelCmd   `cmd:"" help:"Print the bytes of a single pixel"`
	Import  imageio.ImportCmd `cmd:"" help:"Import GIF, JPEG, PNG, BMP, TIFF and WebP images as bitmaps"`
	Export  imageio.ExportCmd `cmd:"" help:"Export bitmaps as images"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("pixbuf"),
		kong.Description("Raw bitmap pixel format conversion"),
		kong.UsageOnError(),
	)

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		kctx.FatalIfErrorf(err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Debug("running", "command", kctx.Command(), "workers", cli.Workers)

	pool := parallel.Start(cli.Workers)
	err := kctx.Run(pool.Do, pool.Wait)
	kctx.FatalIfErrorf(err)
}
