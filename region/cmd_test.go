package region

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"pixbuf/bitmap"
	"pixbuf/buffer"
	"pixbuf/rawfile"
)

func saveSequence(t *testing.T, path string, size bitmap.Size, pt bitmap.PixelType) {
	t.Helper()
	data := make([]byte, bitmap.DataLength(size, pt))
	for i := range data {
		data[i] = byte(i)
	}
	bm, err := bitmap.New(buffer.Wrap(data), size, pt)
	if err != nil {
		t.Fatal(err)
	}
	if err := rawfile.Save(path, bm, rawfile.Options{}); err != nil {
		t.Fatal(err)
	}
}

func TestChunkCmd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "img"+rawfile.Ext)
	saveSequence(t, src, bitmap.Size{Width: 4, Height: 3}, bitmap.Rgb)

	cmd := &ChunkCmd{File: src, X: 1, Y: 1, Width: 2, Height: 2}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if want := filepath.Join(dir, "img-1_1-2x2"+rawfile.Ext); cmd.Out != want {
		t.Errorf("Validate: out %q, want %q", cmd.Out, want)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := rawfile.Load(cmd.Out)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{15, 16, 17, 18, 19, 20, 27, 28, 29, 30, 31, 32}
	if got.Size() != (bitmap.Size{Width: 2, Height: 2}) || !bytes.Equal(got.Storage().Bytes(), want) {
		t.Errorf("chunk: got %s %v, want 2x2 %v", got.Size(), got.Storage().Bytes(), want)
	}
}

func TestChunkCmd_OutOfRange(t *testing.T) {
	src := filepath.Join(t.TempDir(), "img"+rawfile.Ext)
	saveSequence(t, src, bitmap.Size{Width: 4, Height: 3}, bitmap.Red)

	cmd := &ChunkCmd{File: src, X: 3, Y: 0, Width: 2, Height: 1}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); !errors.Is(err, bitmap.ErrOutOfRange) {
		t.Errorf("Run: got %v, want ErrOutOfRange", err)
	}

	if err := (&ChunkCmd{File: src, Width: 0, Height: 1}).Validate(nil); err == nil {
		t.Error("Validate: expected error for an empty region")
	}
}

func TestPixelCmd(t *testing.T) {
	src := filepath.Join(t.TempDir(), "img"+rawfile.Ext)
	saveSequence(t, src, bitmap.Size{Width: 2, Height: 2}, bitmap.Rgba)

	if err := (&PixelCmd{File: src, X: 1, Y: 1}).Run(); err != nil {
		t.Errorf("Run: %v", err)
	}
	if err := (&PixelCmd{File: src, X: 2, Y: 0}).Run(); !errors.Is(err, bitmap.ErrOutOfRange) {
		t.Errorf("Run outside: got %v, want ErrOutOfRange", err)
	}
}
