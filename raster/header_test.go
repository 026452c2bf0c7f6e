package raster

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

// testCUPSHeader returns a version 2 header with every field set.
func testCUPSHeader() *CUPSHeader {
	h := &CUPSHeader{
		MediaClass:      "PwgRaster",
		MediaColor:      "white",
		MediaType:       "stationery",
		AdvanceDistance: 5,
		AdvanceMedia:    AdvanceAfterPage,
		Collate:         true,
		CutMedia:        CutAfterJob,
		Duplex:          true,
		HorizDPI:        300,
		VertDPI:         600,
		BoundingBox:     BoundingBox{Left: 1, Bottom: 2, Right: 611, Top: 790},
		InsertSheet:     true,
		Jog:             JogAfterSet,
		LeadingEdge:     EdgeBottom,
		MarginLeft:      18,
		MarginBottom:    36,
		ManualFeed:      true,
		MediaPosition:   2,
		MediaWeight:     75,
		MirrorPrint:     true,
		NumCopies:       2,
		Orientation:     RotateClockwise,
		OutputFaceUp:    true,
		Width:           612,
		Length:          792,
		Separations:     true,
		TraySwitch:      true,
		Tumble:          true,
	}
	h.CUPS = CUPSFields{
		Width:                   5,
		Height:                  3,
		MediaType:               1,
		BitsPerColor:            8,
		BitsPerPixel:            24,
		BytesPerLine:            15,
		ColorOrder:              ChunkyPixels,
		ColorSpace:              ColorSpacesRGB,
		Compression:             1,
		RowCount:                7,
		RowFeed:                 8,
		RowStep:                 9,
		NumColors:               3,
		BorderlessScalingFactor: 1.5,
		PageSize:                [2]float32{612, 792},
		ImagingBBox:             CUPSBoundingBox{Left: 0.25, Bottom: 0.5, Right: 611.75, Top: 791.5},
		MarkerType:              "toner",
		RenderingIntent:         "perceptual",
		PageSizeName:            "na_letter_8.5x11in",
	}
	for i := range h.CUPS.Integer {
		h.CUPS.Integer[i] = i * 3
		h.CUPS.Real[i] = float32(i) / 4
		h.CUPS.String[i] = fmt.Sprintf("string %d", i)
	}
	return h
}

// v1Fields returns a copy of h without the fields that version 1
// headers don't have.
func v1Fields(h *CUPSHeader) *CUPSHeader {
	out := *h
	out.CUPS = CUPSFields{
		Width:        h.CUPS.Width,
		Height:       h.CUPS.Height,
		MediaType:    h.CUPS.MediaType,
		BitsPerColor: h.CUPS.BitsPerColor,
		BitsPerPixel: h.CUPS.BitsPerPixel,
		BytesPerLine: h.CUPS.BytesPerLine,
		ColorOrder:   h.CUPS.ColorOrder,
		ColorSpace:   h.CUPS.ColorSpace,
		Compression:  h.CUPS.Compression,
		RowCount:     h.CUPS.RowCount,
		RowFeed:      h.CUPS.RowFeed,
		RowStep:      h.CUPS.RowStep,
	}
	return &out
}

func testURFHeader() *URFHeader {
	return &URFHeader{
		BitsPerPixel:  24,
		ColorSpace:    URFColorSpacesRGB,
		Duplex:        URFDuplexLongSide,
		Quality:       URFQualityHigh,
		MediaType:     3,
		MediaPosition: 7,
		Width:         4,
		Height:        2,
		DPI:           600,
	}
}

var cupsFormats = []Format{
	{VersionCUPS1, binary.BigEndian},
	{VersionCUPS1, binary.LittleEndian},
	{VersionCUPS2, binary.BigEndian},
	{VersionCUPS2, binary.LittleEndian},
	{VersionCUPS3, binary.BigEndian},
	{VersionCUPS3, binary.LittleEndian},
}

func TestHeaderSize(t *testing.T) {
	want := map[Version]int{
		VersionURF:   32,
		VersionCUPS1: 420,
		VersionCUPS2: 1796,
		VersionCUPS3: 1796,
		Version(0):   0,
	}
	for v, n := range want {
		if got := HeaderSize(v); got != n {
			t.Errorf("HeaderSize(%s) = %d, want %d", v, got, n)
		}
	}
}

func TestCUPSHeaderRoundTrip(t *testing.T) {
	for _, f := range cupsFormats {
		h := testCUPSHeader()
		b, err := EncodeHeader(h, f)
		if err != nil {
			t.Fatalf("%s: %s", f, err)
		}
		if len(b) != HeaderSize(f.Version) {
			t.Errorf("%s: encoded %d bytes, want %d", f, len(b), HeaderSize(f.Version))
		}
		got, err := DecodeHeader(b, f)
		if err != nil {
			t.Fatalf("%s: %s", f, err)
		}
		want := h
		if f.Version == VersionCUPS1 {
			want = v1Fields(h)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: header mismatch (-want +got):\n%s", f, diff)
		}
	}
}

func TestCUPSHeaderOffsets(t *testing.T) {
	h := testCUPSHeader()
	for _, bo := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		b, err := EncodeHeader(h, Format{VersionCUPS2, bo})
		if err != nil {
			t.Fatal(err)
		}
		uints := map[int]uint32{
			256: 5,   // AdvanceDistance
			260: 4,   // AdvanceMedia
			264: 1,   // Collate
			276: 300, // HorizDPI
			280: 600, // VertDPI
			292: 611, // BoundingBox.Right
			344: 3,   // Orientation
			352: 612, // PageSize[0]
			356: 792, // PageSize[1]
			368: 1,   // Tumble
			372: 5,   // cupsWidth
			376: 3,   // cupsHeight
			384: 8,   // cupsBitsPerColor
			388: 24,  // cupsBitsPerPixel
			392: 15,  // cupsBytesPerLine
			400: ColorSpacesRGB,
			416: 9,  // cupsRowStep
			420: 3,  // cupsNumColors
			456: 3,  // cupsInteger[1]
			512: 45, // cupsInteger[15]
		}
		for off, v := range uints {
			if got := bo.Uint32(b[off:]); got != v {
				t.Errorf("%s: uint32 at %d = %d, want %d", bo, off, got, v)
			}
		}
		floats := map[int]float32{
			424: 1.5,    // cupsBorderlessScalingFactor
			428: 612,    // cupsPageSize[0]
			444: 611.75, // cupsImagingBBox.Right
			524: 0.5,    // cupsReal[2]
		}
		for off, v := range floats {
			if got := math.Float32frombits(bo.Uint32(b[off:])); got != v {
				t.Errorf("%s: float32 at %d = %g, want %g", bo, off, got, v)
			}
		}
		strings := map[int]string{
			0:    "PwgRaster",
			64:   "white",
			128:  "stationery",
			192:  "",
			580:  "string 0",
			1540: "string 15",
			1604: "toner",
			1668: "perceptual",
			1732: "na_letter_8.5x11in",
		}
		for off, s := range strings {
			field := b[off : off+64]
			want := make([]byte, 64)
			copy(want, s)
			if !bytes.Equal(field, want) {
				t.Errorf("%s: string at %d = %q, want %q", bo, off, field, want)
			}
		}
	}
}

func TestCUPSHeaderV1Prefix(t *testing.T) {
	for _, v := range []Version{VersionCUPS2, VersionCUPS3} {
		for _, bo := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
			b, err := EncodeHeader(testCUPSHeader(), Format{v, bo})
			if err != nil {
				t.Fatal(err)
			}
			full, err := DecodeHeader(b, Format{v, bo})
			if err != nil {
				t.Fatal(err)
			}
			prefix, err := DecodeHeader(b[:HeaderSize(VersionCUPS1)], Format{VersionCUPS1, bo})
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(v1Fields(full.(*CUPSHeader)), prefix); diff != "" {
				t.Errorf("%s/%s: version 1 prefix differs (-full +prefix):\n%s", v, bo, diff)
			}
		}
	}
}

func TestDecodeHeaderTruncated(t *testing.T) {
	formats := append([]Format{URF}, cupsFormats...)
	for _, f := range formats {
		var h PageHeader = testCUPSHeader()
		if f.Version == VersionURF {
			h = testURFHeader()
		}
		b, err := EncodeHeader(h, f)
		if err != nil {
			t.Fatal(err)
		}
		for _, n := range []int{0, 1, len(b) / 2, len(b) - 1} {
			got, err := DecodeHeader(b[:n], f)
			if err != ErrTruncatedHeader || got != nil {
				t.Errorf("%s: DecodeHeader of %d bytes = %v, %v; want nil, ErrTruncatedHeader", f, n, got, err)
			}
		}
	}
}

func TestDecodeHeaderIgnoresTrailingBytes(t *testing.T) {
	b, err := EncodeHeader(testURFHeader(), URF)
	if err != nil {
		t.Fatal(err)
	}
	b = append(b, 0xFF, 0xFF, 0xFF)
	h, err := DecodeHeader(b, URF)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(testURFHeader(), h); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestCUPSHeaderDecoding(t *testing.T) {
	b, err := EncodeHeader(testCUPSHeader(), PWG)
	if err != nil {
		t.Fatal(err)
	}
	// booleans are true if nonzero
	binary.BigEndian.PutUint32(b[264:], 2)
	// unterminated strings lose their last byte
	for i := 0; i < 64; i++ {
		b[64+i] = 'x'
	}
	h, err := DecodeHeader(b, PWG)
	if err != nil {
		t.Fatal(err)
	}
	ch := h.(*CUPSHeader)
	if !ch.Collate {
		t.Error("Collate = false, want true")
	}
	if want := strings.Repeat("x", 63); ch.MediaColor != want {
		t.Errorf("MediaColor = %q, want %q", ch.MediaColor, want)
	}

	out, err := EncodeHeader(ch, PWG)
	if err != nil {
		t.Fatal(err)
	}
	if out[64+63] != 0 {
		t.Error("re-encoded MediaColor isn't terminated")
	}
	if v := binary.BigEndian.Uint32(out[264:]); v != 1 {
		t.Errorf("encoded Collate = %d, want 1", v)
	}
}

func TestURFHeaderRoundTrip(t *testing.T) {
	h := testURFHeader()
	b, err := EncodeHeader(h, URF)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		24, URFColorSpacesRGB, URFDuplexLongSide, URFQualityHigh, 3, 7,
		0, 0, 0, 0, 0, 0,
		0, 0, 0, 4,
		0, 0, 0, 2,
		0, 0, 0x02, 0x58,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	if !bytes.Equal(b, want) {
		t.Errorf("encoded URF header = % x, want % x", b, want)
	}
	got, err := DecodeHeader(b, URF)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(h, got); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderLayout(t *testing.T) {
	l := testCUPSHeader().Layout()
	want := Layout{
		Width:        5,
		Height:       3,
		HorizDPI:     300,
		VertDPI:      600,
		ColorSpace:   ColorSpacesRGB,
		ColorOrder:   ChunkyPixels,
		BitsPerColor: 8,
		BitsPerPixel: 24,
		BytesPerLine: 15,
		NumColors:    3,
		White:        0xFF,
	}
	if diff := cmp.Diff(want, l); diff != "" {
		t.Errorf("CUPS layout mismatch (-want +got):\n%s", diff)
	}

	ul := testURFHeader().Layout()
	want = Layout{
		Width:        4,
		Height:       2,
		HorizDPI:     600,
		VertDPI:      600,
		ColorSpace:   URFColorSpacesRGB,
		ColorOrder:   ChunkyPixels,
		BitsPerColor: 8,
		BitsPerPixel: 24,
		BytesPerLine: 12,
		NumColors:    3,
		White:        0xFF,
	}
	if diff := cmp.Diff(want, ul); diff != "" {
		t.Errorf("URF layout mismatch (-want +got):\n%s", diff)
	}
}

func TestLayoutGroupsAndLines(t *testing.T) {
	var tests = []struct {
		l     Layout
		group int
		lines int
	}{
		{Layout{Height: 4, ColorOrder: ChunkyPixels, BitsPerColor: 1, BitsPerPixel: 1, NumColors: 1}, 1, 4},
		{Layout{Height: 4, ColorOrder: ChunkyPixels, BitsPerColor: 16, BitsPerPixel: 48, NumColors: 3}, 6, 4},
		{Layout{Height: 4, ColorOrder: BandedPixels, BitsPerColor: 16, BitsPerPixel: 16, NumColors: 3}, 2, 4},
		{Layout{Height: 4, ColorOrder: PlanarPixels, BitsPerColor: 8, BitsPerPixel: 8, NumColors: 4}, 1, 16},
	}
	for _, tt := range tests {
		if g := tt.l.GroupSize(); g != tt.group {
			t.Errorf("GroupSize() of %s = %d, want %d", spew.Sdump(tt.l), g, tt.group)
		}
		if n := tt.l.Lines(); n != tt.lines {
			t.Errorf("Lines() of %s = %d, want %d", spew.Sdump(tt.l), n, tt.lines)
		}
	}
}

func TestHeaderInvalidFields(t *testing.T) {
	var tests = []struct {
		name   string
		modify func(h *CUPSHeader)
	}{
		{"zero width", func(h *CUPSHeader) { h.CUPS.Width = 0 }},
		{"zero height", func(h *CUPSHeader) { h.CUPS.Height = 0 }},
		{"bits per color", func(h *CUPSHeader) { h.CUPS.BitsPerColor = 3 }},
		{"bits per pixel", func(h *CUPSHeader) { h.CUPS.BitsPerPixel = 20 }},
		{"bytes per line", func(h *CUPSHeader) { h.CUPS.BytesPerLine = 16 }},
		{"color order", func(h *CUPSHeader) { h.CUPS.ColorOrder = 3 }},
		{"color space", func(h *CUPSHeader) { h.CUPS.ColorSpace = 25 }},
		{"num colors", func(h *CUPSHeader) { h.CUPS.NumColors = 16 }},
		{"advance media", func(h *CUPSHeader) { h.AdvanceMedia = 5 }},
		{"cut media", func(h *CUPSHeader) { h.CutMedia = 9 }},
		{"jog", func(h *CUPSHeader) { h.Jog = 4 }},
		{"leading edge", func(h *CUPSHeader) { h.LeadingEdge = 4 }},
		{"orientation", func(h *CUPSHeader) { h.Orientation = 4 }},
		{"banded bits per pixel", func(h *CUPSHeader) { h.CUPS.ColorOrder = BandedPixels }},
		{"long string", func(h *CUPSHeader) { h.MediaType = string(bytes.Repeat([]byte("x"), 65)) }},
		{"string without room for NUL", func(h *CUPSHeader) { h.CUPS.PageSizeName = strings.Repeat("x", 64) }},
		{"string with NUL", func(h *CUPSHeader) { h.CUPS.MarkerType = "a\x00b" }},
	}

	for _, tt := range tests {
		h := testCUPSHeader()
		tt.modify(h)
		_, err := EncodeHeader(h, PWG)
		if !errors.Is(err, ErrInvalidField) {
			t.Errorf("%s: EncodeHeader = %v, want ErrInvalidField", tt.name, err)
		}
	}

	// Decoding runs the same checks.
	b, err := EncodeHeader(testCUPSHeader(), PWG)
	if err != nil {
		t.Fatal(err)
	}
	binary.BigEndian.PutUint32(b[392:], 14)
	if _, err := DecodeHeader(b, PWG); !errors.Is(err, ErrInvalidField) {
		t.Errorf("DecodeHeader with wrong BytesPerLine = %v, want ErrInvalidField", err)
	}
}

func TestURFHeaderInvalidFields(t *testing.T) {
	var tests = []struct {
		name   string
		modify func(h *URFHeader)
	}{
		{"color space", func(h *URFHeader) { h.ColorSpace = 7 }},
		{"bits per pixel", func(h *URFHeader) { h.BitsPerPixel = 8 }},
		{"duplex", func(h *URFHeader) { h.Duplex = 0 }},
		{"quality", func(h *URFHeader) { h.Quality = 1 }},
		{"media type", func(h *URFHeader) { h.MediaType = 14 }},
		{"media position", func(h *URFHeader) { h.MediaPosition = 50 }},
		{"resolution", func(h *URFHeader) { h.DPI = 0 }},
		{"width", func(h *URFHeader) { h.Width = 0 }},
	}
	for _, tt := range tests {
		h := testURFHeader()
		tt.modify(h)
		_, err := EncodeHeader(h, URF)
		if !errors.Is(err, ErrInvalidField) {
			t.Errorf("%s: EncodeHeader = %v, want ErrInvalidField", tt.name, err)
		}
	}
}

func TestHeaderVersionMismatch(t *testing.T) {
	if _, err := EncodeHeader(testURFHeader(), PWG); err != ErrUnsupported {
		t.Errorf("encoding URF header as PWG = %v, want ErrUnsupported", err)
	}
	if _, err := EncodeHeader(testCUPSHeader(), URF); err != ErrUnsupported {
		t.Errorf("encoding CUPS header as URF = %v, want ErrUnsupported", err)
	}
	if _, err := DecodeHeader(make([]byte, 2000), Format{}); err != ErrUnrecognizedFormat {
		t.Errorf("decoding with zero format = %v, want ErrUnrecognizedFormat", err)
	}
}

func TestHeaderV1NumColors(t *testing.T) {
	h := testCUPSHeader()
	f := Format{VersionCUPS1, binary.BigEndian}
	h.CUPS.NumColors = 0
	if _, err := EncodeHeader(h, f); err != nil {
		t.Errorf("implied NumColors: %s", err)
	}
	h.CUPS.NumColors = 4
	if _, err := EncodeHeader(h, f); !errors.Is(err, ErrInvalidField) {
		t.Errorf("NumColors that version 1 can't store = %v, want ErrInvalidField", err)
	}
}
