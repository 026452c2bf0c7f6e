package raster

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"testing"
)

func TestCompressLine(t *testing.T) {
	seq := func(n int) []byte {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(i)
		}
		return b
	}
	var tests = []struct {
		name  string
		line  []byte
		group int
		out   []byte
	}{
		{"single group", []byte{5}, 1, []byte{0x00, 5}},
		{"repeat", []byte{7, 7, 7, 7}, 1, []byte{0x03, 7}},
		{"literal", []byte{1, 2, 3}, 1, []byte{0xFE, 1, 2, 3}},
		{"repeat then single", []byte{1, 1, 2}, 1, []byte{0x01, 1, 0x00, 2}},
		{"single then repeat", []byte{1, 2, 2}, 1, []byte{0x00, 1, 0x01, 2}},
		{"literal then repeat", []byte{1, 2, 3, 3, 3}, 1, []byte{0xFF, 1, 2, 0x02, 3}},
		{"multi-byte groups", []byte{1, 2, 1, 2, 3, 4}, 2, []byte{0x01, 1, 2, 0x00, 3, 4}},
		{"four identical groups", []byte{0xAA, 0xBB, 0xCC, 0xAA, 0xBB, 0xCC, 0xAA, 0xBB, 0xCC, 0xAA, 0xBB, 0xCC}, 3,
			[]byte{0x03, 0xAA, 0xBB, 0xCC}},
		{"long repeat", bytes.Repeat([]byte{9}, 300), 1, []byte{0x7F, 9, 0x7F, 9, 0x2B, 9}},
		{"long literal", seq(130), 1, append(append([]byte{0x81}, seq(128)...), 0xFF, 128, 129)},
	}

	for _, tt := range tests {
		out, err := CompressLine(nil, tt.line, tt.group)
		if err != nil {
			t.Errorf("%s: %s", tt.name, err)
			continue
		}
		if !bytes.Equal(out, tt.out) {
			t.Errorf("%s: CompressLine(% x) = % x, want % x", tt.name, tt.line, out, tt.out)
		}

		line := make([]byte, len(tt.line))
		if err := DecompressLine(line, bytes.NewReader(out), tt.group, 0xFF); err != nil {
			t.Errorf("%s: DecompressLine: %s", tt.name, err)
			continue
		}
		if !bytes.Equal(line, tt.line) {
			t.Errorf("%s: DecompressLine(% x) = % x, want % x", tt.name, out, line, tt.line)
		}
	}
}

func TestCompressLineAppends(t *testing.T) {
	out, err := CompressLine([]byte{0x42}, []byte{1, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x42, 0x01, 1}; !bytes.Equal(out, want) {
		t.Errorf("got % x, want % x", out, want)
	}
}

func TestCompressLineInvalid(t *testing.T) {
	if _, err := CompressLine(nil, nil, 1); !errors.Is(err, ErrLineLength) {
		t.Errorf("empty line: got %v, want ErrLineLength", err)
	}
	if _, err := CompressLine(nil, []byte{1, 2, 3}, 2); !errors.Is(err, ErrLineLength) {
		t.Errorf("partial group: got %v, want ErrLineLength", err)
	}
	if _, err := CompressLine(nil, []byte{1}, 2); !errors.Is(err, ErrLineLength) {
		t.Errorf("line shorter than group: got %v, want ErrLineLength", err)
	}
	if _, err := CompressLine(nil, []byte{1}, 0); !errors.Is(err, ErrInvalidField) {
		t.Errorf("zero group size: got %v, want ErrInvalidField", err)
	}
	if err := DecompressLine(nil, bytes.NewReader([]byte{0}), 1, 0); !errors.Is(err, ErrLineLength) {
		t.Errorf("decompressing into empty line: got %v, want ErrLineLength", err)
	}
}

func TestMinimumRow(t *testing.T) {
	for _, bpp := range []int{1, 2, 4, 8, 16} {
		l := Layout{
			Width:        1,
			Height:       1,
			ColorOrder:   ChunkyPixels,
			BitsPerColor: bpp,
			BitsPerPixel: bpp,
			NumColors:    1,
		}
		l.BytesPerLine = int(l.lineBytes())
		if err := l.check(); err != nil {
			t.Fatalf("%d bpp: %s", bpp, err)
		}
		line := make([]byte, l.BytesPerLine)
		for i := range line {
			line[i] = byte(0x80 | i)
		}
		out, err := CompressLine(nil, line, l.GroupSize())
		if err != nil {
			t.Fatalf("%d bpp: %s", bpp, err)
		}
		if want := append([]byte{0x00}, line...); !bytes.Equal(out, want) {
			t.Errorf("%d bpp: compressed to % x, want % x", bpp, out, want)
		}
		got := make([]byte, len(line))
		if err := DecompressLine(got, bytes.NewReader(out), l.GroupSize(), l.White); err != nil {
			t.Fatalf("%d bpp: %s", bpp, err)
		}
		if !bytes.Equal(got, line) {
			t.Errorf("%d bpp: decompressed to % x, want % x", bpp, got, line)
		}
	}
}

func TestCompressIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		group := 1 + rng.Intn(6)
		line := make([]byte, group*(1+rng.Intn(400)))
		// few distinct values make for runs of all lengths
		for j := range line {
			line[j] = byte(rng.Intn(3))
		}
		c1, err := CompressLine(nil, line, group)
		if err != nil {
			t.Fatal(err)
		}
		dec := make([]byte, len(line))
		if err := DecompressLine(dec, bytes.NewReader(c1), group, 0); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(dec, line) {
			t.Fatalf("round trip of % x with group size %d yielded % x", line, group, dec)
		}
		c2, err := CompressLine(nil, dec, group)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(c1, c2) {
			t.Fatalf("compressing % x twice yielded % x and % x", line, c1, c2)
		}
	}
}

func TestDecompressLineFill(t *testing.T) {
	var tests = []struct {
		in    []byte
		white byte
		out   []byte
	}{
		{[]byte{0x00, 0x11, 0x80}, 0xFF, []byte{0x11, 0xFF, 0xFF, 0xFF}},
		{[]byte{0x80}, 0x00, []byte{0, 0, 0, 0}},
		{[]byte{0xFF, 1, 2, 0x80}, 0xFF, []byte{1, 2, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		line := bytes.Repeat([]byte{0x55}, 4)
		r := bytes.NewReader(tt.in)
		if err := DecompressLine(line, r, 1, tt.white); err != nil {
			t.Errorf("DecompressLine(% x): %s", tt.in, err)
			continue
		}
		if !bytes.Equal(line, tt.out) {
			t.Errorf("DecompressLine(% x) = % x, want % x", tt.in, line, tt.out)
		}
		if r.Len() != 0 {
			t.Errorf("DecompressLine(% x) left %d bytes unread", tt.in, r.Len())
		}
	}
}

func TestDecompressLineErrors(t *testing.T) {
	var tests = []struct {
		name  string
		in    []byte
		size  int
		group int
		err   error
	}{
		{"repeat overrun", []byte{0x02, 0xAA}, 2, 1, ErrOverrun},
		{"literal overrun", []byte{0xFE, 1, 2, 3}, 2, 1, ErrOverrun},
		{"group overrun", []byte{0x01, 1, 2}, 2, 2, ErrOverrun},
		{"overrun after run", []byte{0x00, 1, 0x01, 2}, 2, 1, ErrOverrun},
		{"empty", nil, 4, 1, ErrUnderrun},
		{"missing control byte", []byte{0x01, 7}, 4, 1, ErrUnderrun},
		{"missing repeated group", []byte{0x03}, 4, 1, ErrUnderrun},
		{"partial repeated group", []byte{0x01, 1}, 4, 2, ErrUnderrun},
		{"partial literal", []byte{0xFD, 1, 2}, 4, 1, ErrUnderrun},
	}
	for _, tt := range tests {
		line := make([]byte, tt.size)
		err := DecompressLine(line, bytes.NewReader(tt.in), tt.group, 0)
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.err)
		}
		if tt.err == ErrUnderrun && !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("%s: %v doesn't match io.ErrUnexpectedEOF", tt.name, err)
		}
	}
}

// byteReader only implements io.ByteReader.
type byteReader struct{ b []byte }

func (r *byteReader) ReadByte() (byte, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	c := r.b[0]
	r.b = r.b[1:]
	return c, nil
}

func TestDecompressLineByteReader(t *testing.T) {
	line := make([]byte, 6)
	err := DecompressLine(line, &byteReader{[]byte{0xFF, 1, 2, 3, 4, 0x00, 5, 6}}, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{1, 2, 3, 4, 5, 6}; !bytes.Equal(line, want) {
		t.Errorf("got % x, want % x", line, want)
	}

	err = DecompressLine(line, &byteReader{[]byte{0x02, 1}}, 2, 0)
	if !errors.Is(err, ErrUnderrun) {
		t.Errorf("got %v, want ErrUnderrun", err)
	}
}
