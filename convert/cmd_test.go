package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pixbuf/bitmap"
	"pixbuf/buffer"
	"pixbuf/parallel"
	"pixbuf/rawfile"

	"github.com/klauspost/compress/zstd"
)

func saveBitmap(t *testing.T, path string, data []byte, size bitmap.Size, pt bitmap.PixelType) {
	t.Helper()
	bm, err := bitmap.New(buffer.Wrap(data), size, pt)
	if err != nil {
		t.Fatal(err)
	}
	if err := rawfile.Save(path, bm, rawfile.Options{}); err != nil {
		t.Fatal(err)
	}
}

func TestCLICmd_Run(t *testing.T) {
	dir := t.TempDir()
	two := bitmap.Size{Width: 2, Height: 1}
	saveBitmap(t, filepath.Join(dir, "a"+rawfile.Ext), []byte{10, 20, 30, 40, 50, 60}, two, bitmap.Rgb)
	saveBitmap(t, filepath.Join(dir, "b"+rawfile.Ext), []byte{1, 2, 3, 4, 5, 6, 7, 8}, two, bitmap.Rgba)
	saveBitmap(t, filepath.Join(dir, "c"+rawfile.Ext), []byte{5, 6}, two, bitmap.Red)
	if err := os.WriteFile(filepath.Join(dir, "broken"+rawfile.Ext), []byte("nope"), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := &CLICmd{Scan: dir, Dest: "out", To: "bgr", Compress: true}
	if err := cmd.Validate(nil); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cmd.Dest != filepath.Join(dir, "out") || cmd.PixelType != bitmap.Bgr {
		t.Errorf("Validate: dest %q, type %s", cmd.Dest, cmd.PixelType)
	}

	pool := parallel.Start(2)
	if err := cmd.Run(pool.Do, pool.Wait); err == nil {
		t.Error("Run: expected error for the broken file")
	}

	want := map[string][]byte{
		"a": {30, 20, 10, 60, 50, 40},
		"b": {3, 2, 1, 7, 6, 5},
		"c": {0, 0, 5, 0, 0, 6},
	}
	for name, data := range want {
		got, err := rawfile.Load(filepath.Join(cmd.Dest, name+rawfile.Ext))
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if got.PixelType() != bitmap.Bgr || !bytes.Equal(got.Storage().Bytes(), data) {
			t.Errorf("%s: got %s %v, want bgr %v", name, got.PixelType(), got.Storage().Bytes(), data)
		}
	}
}

func TestCLICmd_ValidateScan(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := &CLICmd{Scan: file, Dest: "out", To: "rgb"}
	if err := cmd.Validate(nil); err == nil {
		t.Error("Validate: expected error for a non directory scan path")
	}
}

func TestCLICmd_Unsupported(t *testing.T) {
	dir := t.TempDir()
	saveBitmap(t, filepath.Join(dir, "a"+rawfile.Ext), []byte{1}, bitmap.Size{Width: 1, Height: 1}, bitmap.Red)

	cmd := &CLICmd{Scan: dir, Dest: dir, To: "green"}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	pool := parallel.Start(1)
	if err := cmd.Run(pool.Do, pool.Wait); !errors.Is(err, bitmap.ErrUnsupportedConversion) {
		t.Errorf("Run: got %v, want ErrUnsupportedConversion", err)
	}
}

func TestWrapCmd_Run(t *testing.T) {
	dir := t.TempDir()
	raw := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	plain := filepath.Join(dir, "plain.raw")
	if err := os.WriteFile(plain, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	packed := filepath.Join(dir, "packed.raw.zst")
	if err := os.WriteFile(packed, enc.EncodeAll(raw, nil), 0o600); err != nil {
		t.Fatal(err)
	}
	_ = enc.Close()

	tests := []struct {
		file, size, typ string
		out             string
		wantSize        bitmap.Size
		wantType        bitmap.PixelType
	}{
		{file: plain, size: "2x2", typ: "rgb", out: filepath.Join(dir, "plain"+rawfile.Ext),
			wantSize: bitmap.Size{Width: 2, Height: 2}, wantType: bitmap.Rgb},
		{file: packed, size: "3x1", typ: "rgba", out: filepath.Join(dir, "packed"+rawfile.Ext),
			wantSize: bitmap.Size{Width: 3, Height: 1}, wantType: bitmap.Rgba},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.file), func(t *testing.T) {
			cmd := &WrapCmd{File: tt.file, Size: tt.size, Type: tt.typ}
			if err := cmd.Validate(nil); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if cmd.Out != tt.out {
				t.Errorf("Validate: out %q, want %q", cmd.Out, tt.out)
			}
			if err := cmd.Run(); err != nil {
				t.Fatalf("Run: %v", err)
			}

			got, err := rawfile.Load(cmd.Out)
			if err != nil {
				t.Fatal(err)
			}
			if got.Size() != tt.wantSize || got.PixelType() != tt.wantType {
				t.Errorf("got %s %s", got.Size(), got.PixelType())
			}
			if !bytes.Equal(got.Storage().Bytes(), raw) {
				t.Errorf("pixels: got %v, want %v", got.Storage().Bytes(), raw)
			}
		})
	}
}

func TestWrapCmd_ShortDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.raw")
	if err := os.WriteFile(path, []byte{1, 2, 3}, 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := &WrapCmd{File: path, Size: "2x2", Type: "rgb"}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err == nil {
		t.Error("Run: expected error for a short dump")
	}
}
