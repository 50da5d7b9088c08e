package stream

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestReader(t *testing.T) {
	s := NewReader(bytes.NewReader([]byte{1, 2, 3, 4, 5}))
	defer s.Close()

	first, err := s.Read(2)
	if err != nil {
		t.Fatalf("Read(2): %v", err)
	}
	if !bytes.Equal(first.Bytes(), []byte{1, 2}) {
		t.Errorf("Read(2): got %v", first.Bytes())
	}

	empty, err := s.Read(0)
	if err != nil || !empty.IsEmpty() {
		t.Errorf("Read(0): got %d bytes, %v", empty.Len(), err)
	}

	if _, err := s.Read(4); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("underrun: got %v, want io.ErrUnexpectedEOF", err)
	}
	if _, err := s.Read(1); !errors.Is(err, io.EOF) {
		t.Errorf("exhausted: got %v, want io.EOF", err)
	}
}

func TestReader_Closed(t *testing.T) {
	s := NewReader(bytes.NewReader([]byte{1}))
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Read(1); !errors.Is(err, ErrClosed) {
		t.Errorf("Read after Close: got %v, want ErrClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestZstdReader(t *testing.T) {
	raw := make([]byte, 3000)
	for i := range raw {
		raw[i] = byte(i % 7)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := enc.EncodeAll(raw, nil)
	_ = enc.Close()

	s, err := NewZstdReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("NewZstdReader: %v", err)
	}
	defer s.Close()

	head, err := s.Read(1000)
	if err != nil {
		t.Fatalf("Read(1000): %v", err)
	}
	tail, err := s.Read(2000)
	if err != nil {
		t.Fatalf("Read(2000): %v", err)
	}
	if !bytes.Equal(append(head.Bytes(), tail.Bytes()...), raw) {
		t.Error("decompressed bytes differ")
	}
	if _, err := s.Read(1); !errors.Is(err, io.EOF) {
		t.Errorf("past end: got %v, want io.EOF", err)
	}
}

func TestReader_Large(t *testing.T) {
	raw := make([]byte, eagerLength+10)
	for i := range raw {
		raw[i] = byte(i % 251)
	}

	s := NewReader(bytes.NewReader(raw))
	got, err := s.Read(len(raw))
	if err != nil {
		t.Fatalf("Read(%d): %v", len(raw), err)
	}
	if !bytes.Equal(got.Bytes(), raw) {
		t.Error("large read differs")
	}
}

func TestReader_LargeTruncated(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{"empty", nil, io.EOF},
		{"short", []byte{1, 2, 3}, io.ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewReader(bytes.NewReader(tt.input))
			if _, err := s.Read(1 << 30); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}
