// Package rawfile stores bitmaps in a small RIFF container.
package rawfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"pixbuf/bitmap"
	"pixbuf/stream"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/riff"
)

/*
RIFF <size> "PXBM"
  "head" <12>
    WORD  version        (little endian, currently 1)
    BYTE  pixel type
    BYTE  reserved
    DWORD width
    DWORD height
  "data" <n> raw pixels, row by row
  or
  "zstd" <n> zstd compressed raw pixels
*/

// ErrFormat is returned when a stream is not a valid bitmap container.
var ErrFormat = errors.New("rawfile: invalid format")

// Ext is the file extension used for stored bitmaps.
const Ext = ".pxb"

const (
	version    = 1
	headLength = 12

	// riff chunk lengths are 32 bit, keep some room for the other chunks.
	maxDataLength = 1<<31 - 64
)

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	formType = riff.FourCC{'P', 'X', 'B', 'M'}
	headType = riff.FourCC{'h', 'e', 'a', 'd'}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
	zstdType = riff.FourCC{'z', 's', 't', 'd'}
)

// Options control how a bitmap is written.
type Options struct {
	// Compress stores the pixel data zstd compressed.
	Compress bool
}

type header struct {
	pixelType bitmap.PixelType
	size      bitmap.Size
}

// Read decodes a bitmap from r. Unknown chunks are skipped.
func Read(r io.Reader) (*bitmap.Bitmap, error) {
	form, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if form != formType {
		return nil, fmt.Errorf("%w: unsupported RIFF content type: %s", ErrFormat, string(form[:]))
	}

	var hdr *header
	for {
		id, size, data, err := rd.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("could not read chunk: %w", err)
		}

		switch id {
		case headType:
			if hdr, err = readHeader(data, size); err != nil {
				return nil, err
			}
		case dataType, zstdType:
			if hdr == nil {
				return nil, fmt.Errorf("%w: chunk %s before header", ErrFormat, string(id[:]))
			}
			return readPixels(id, size, data, hdr)
		}
	}

	return nil, fmt.Errorf("%w: missing pixel data", ErrFormat)
}

func readHeader(r io.Reader, size uint32) (*header, error) {
	if size != headLength {
		return nil, fmt.Errorf("%w: header length %d", ErrFormat, size)
	}

	buf := make([]byte, headLength)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	if ver := binary.LittleEndian.Uint16(buf); ver != version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, ver)
	}

	pt := bitmap.PixelType(buf[2])
	if !pt.Valid() {
		return nil, fmt.Errorf("%w: unknown pixel type %d", ErrFormat, buf[2])
	}

	width := binary.LittleEndian.Uint32(buf[4:])
	height := binary.LittleEndian.Uint32(buf[8:])
	if uint64(width)*uint64(height)*uint64(bitmap.PixelLength(pt)) > maxDataLength {
		return nil, fmt.Errorf("%w: image too large: %dx%d", ErrFormat, width, height)
	}

	return &header{
		pixelType: pt,
		size:      bitmap.Size{Width: int(width), Height: int(height)},
	}, nil
}

func readPixels(id riff.FourCC, size uint32, r io.Reader, hdr *header) (*bitmap.Bitmap, error) {
	var src *stream.Reader
	if id == zstdType {
		var err error
		if src, err = stream.NewZstdReader(r); err != nil {
			return nil, err
		}
	} else {
		if want := bitmap.DataLength(hdr.size, hdr.pixelType); int(size) != want {
			return nil, fmt.Errorf("%w: data length %d, want %d", ErrFormat, size, want)
		}
		src = stream.NewReader(r)
	}
	defer src.Close()

	bm, err := bitmap.FromStream(src, hdr.size, hdr.pixelType)
	if err != nil {
		return nil, fmt.Errorf("could not read chunk %s: %w", string(id[:]), err)
	}
	return bm, nil
}

// Write encodes bm to w and returns the number of bytes written.
func Write(w io.Writer, bm *bitmap.Bitmap, opts Options) (int64, error) {
	size, pt := bm.Size(), bm.PixelType()
	pix := bm.Storage().Bytes()
	if want := bitmap.DataLength(size, pt); len(pix) != want {
		return 0, fmt.Errorf("%w: storage holds %d bytes, want %d", bitmap.ErrSizeMismatch, len(pix), want)
	} else if want > maxDataLength {
		return 0, fmt.Errorf("image too large: %s", size)
	}

	id := dataType
	if opts.Compress {
		enc, err := encoder()
		if err != nil {
			return 0, fmt.Errorf("could not create zstd encoder: %w", err)
		}
		pix = enc.EncodeAll(pix, nil)
		id = zstdType
	}

	head := make([]byte, headLength)
	binary.LittleEndian.PutUint16(head, version)
	head[2] = byte(pt)
	binary.LittleEndian.PutUint32(head[4:], uint32(size.Width))
	binary.LittleEndian.PutUint32(head[8:], uint32(size.Height))

	n := 4 + chunkLength(len(head)) + chunkLength(len(pix)) // form type + chunks

	var count int64
	for _, b := range [][]byte{riffType[:], binary.LittleEndian.AppendUint32(nil, uint32(n)), formType[:]} {
		if err := writeBytes(w, b); err != nil {
			return count, fmt.Errorf("could not write RIFF header: %w", err)
		}
		count += int64(len(b))
	}

	m, err := writeChunk(w, headType, head)
	count += m
	if err != nil {
		return count, fmt.Errorf("could not write header: %w", err)
	}

	m, err = writeChunk(w, id, pix)
	count += m
	if err != nil {
		return count, fmt.Errorf("could not write pixel data: %w", err)
	}

	return count, nil
}

// chunkLength returns the stored length of a chunk holding n bytes:
// chunk id + chunk size + data + padding to an even length.
func chunkLength(n int) int {
	return 8 + n + n&1
}

func writeChunk(w io.Writer, id riff.FourCC, data []byte) (int64, error) {
	if err := writeBytes(w, id[:]); err != nil {
		return 0, fmt.Errorf("could not write type: %w", err)
	}

	if err := writeBytes(w, binary.LittleEndian.AppendUint32(nil, uint32(len(data)))); err != nil {
		return 4, fmt.Errorf("could not write chunk size: %w", err)
	}

	if err := writeBytes(w, data); err != nil {
		return 8, fmt.Errorf("could not write chunk data: %w", err)
	}

	if len(data)&1 == 1 {
		if err := writeBytes(w, []byte{0}); err != nil {
			return int64(8 + len(data)), fmt.Errorf("could not write padding: %w", err)
		}
	}

	return int64(chunkLength(len(data))), nil
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return nil
}

var encoder = sync.OnceValues(func() (*zstd.Encoder, error) {
	return zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
})
