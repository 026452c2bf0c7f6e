package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	headerSizeURF   = 32
	headerSizeCUPS1 = 420
	headerSizeCUPS2 = 1796

	cstringSize = 64
)

// HeaderSize returns the size in bytes of a page header of version v,
// or zero for unknown versions.
func HeaderSize(v Version) int {
	switch v {
	case VersionURF:
		return headerSizeURF
	case VersionCUPS1:
		return headerSizeCUPS1
	case VersionCUPS2, VersionCUPS3:
		return headerSizeCUPS2
	default:
		return 0
	}
}

// fields reads and writes consecutive fixed-size header fields in one
// byte order. The first error sticks; later calls are no-ops.
type fields struct {
	b   []byte
	bo  binary.ByteOrder
	off int
	err error
}

func (f *fields) uint() int {
	v := f.bo.Uint32(f.b[f.off:])
	f.off += 4
	return int(v)
}

func (f *fields) float() float32 {
	return math.Float32frombits(uint32(f.uint()))
}

func (f *fields) bool() bool {
	return f.uint() != 0
}

func (f *fields) byte() int {
	v := f.b[f.off]
	f.off++
	return int(v)
}

// cstring reads a NUL-terminated string. Unterminated fields are cut
// to the longest string that fits with its terminator.
func (f *fields) cstring() string {
	b := f.b[f.off : f.off+cstringSize]
	f.off += cstringSize
	if idx := bytes.IndexByte(b, 0); idx >= 0 {
		return string(b[:idx])
	}
	return string(b[:cstringSize-1])
}

func (f *fields) skip(n int) {
	f.off += n
}

func (f *fields) putUint(v int) {
	f.bo.PutUint32(f.b[f.off:], uint32(v))
	f.off += 4
}

func (f *fields) putFloat(v float32) {
	f.putUint(int(math.Float32bits(v)))
}

func (f *fields) putBool(v bool) {
	if v {
		f.putUint(1)
	} else {
		f.putUint(0)
	}
}

func (f *fields) putByte(v int) {
	f.b[f.off] = byte(v)
	f.off++
}

func (f *fields) putCString(name, s string) {
	b := f.b[f.off : f.off+cstringSize]
	f.off += cstringSize
	if f.err != nil {
		return
	}
	if len(s) >= cstringSize || bytes.IndexByte([]byte(s), 0) >= 0 {
		f.err = fmt.Errorf("%w: %s: string %q does not fit into %d bytes with its terminator", ErrInvalidField, name, s, cstringSize)
		return
	}
	n := copy(b, s)
	clear(b[n:])
}

// putZero zero-fills n reserved bytes.
func (f *fields) putZero(n int) {
	clear(f.b[f.off : f.off+n])
	f.off += n
}

// DecodeHeader parses and validates one page header in format f. b must
// hold at least HeaderSize(f.Version) bytes; further bytes are ignored.
// A version 2 or 3 header decoded as version 1 yields the same version
// 1 fields as decoding it in full.
func DecodeHeader(b []byte, f Format) (PageHeader, error) {
	n := HeaderSize(f.Version)
	if n == 0 {
		return nil, ErrUnrecognizedFormat
	}
	if len(b) < n {
		return nil, ErrTruncatedHeader
	}
	var h PageHeader
	switch f.Version {
	case VersionURF:
		h = decodeURFHeader(b[:n])
	default:
		if f.ByteOrder == nil {
			return nil, ErrUnsupported
		}
		h = decodeCUPSHeader(b[:n], f.ByteOrder, f.Version != VersionCUPS1)
	}
	if err := h.validate(f.Version); err != nil {
		return nil, err
	}
	return h, nil
}

// EncodeHeader validates h and serializes it in format f. Reserved
// bytes are zero.
func EncodeHeader(h PageHeader, f Format) ([]byte, error) {
	b := make([]byte, HeaderSize(f.Version))
	if err := encodeHeader(b, h, f); err != nil {
		return nil, err
	}
	return b, nil
}

func encodeHeader(b []byte, h PageHeader, f Format) error {
	if !f.Version.valid() {
		return ErrUnrecognizedFormat
	}
	if err := h.validate(f.Version); err != nil {
		return err
	}
	switch h := h.(type) {
	case *URFHeader:
		encodeURFHeader(b, h)
		return nil
	case *CUPSHeader:
		if f.ByteOrder == nil {
			return ErrUnsupported
		}
		return encodeCUPSHeader(b, h, f.ByteOrder, f.Version != VersionCUPS1)
	default:
		return ErrUnsupported
	}
}

func decodeCUPSHeader(b []byte, bo binary.ByteOrder, v2 bool) *CUPSHeader {
	f := &fields{b: b, bo: bo}
	h := &CUPSHeader{}
	h.MediaClass = f.cstring()
	h.MediaColor = f.cstring()
	h.MediaType = f.cstring()
	h.OutputType = f.cstring()
	h.AdvanceDistance = f.uint()
	h.AdvanceMedia = f.uint()
	h.Collate = f.bool()
	h.CutMedia = f.uint()
	h.Duplex = f.bool()
	h.HorizDPI = f.uint()
	h.VertDPI = f.uint()
	h.BoundingBox.Left = f.uint()
	h.BoundingBox.Bottom = f.uint()
	h.BoundingBox.Right = f.uint()
	h.BoundingBox.Top = f.uint()
	h.InsertSheet = f.bool()
	h.Jog = f.uint()
	h.LeadingEdge = f.uint()
	h.MarginLeft = f.uint()
	h.MarginBottom = f.uint()
	h.ManualFeed = f.bool()
	h.MediaPosition = f.uint()
	h.MediaWeight = f.uint()
	h.MirrorPrint = f.bool()
	h.NegativePrint = f.bool()
	h.NumCopies = f.uint()
	h.Orientation = f.uint()
	h.OutputFaceUp = f.bool()
	h.Width = f.uint()
	h.Length = f.uint()
	h.Separations = f.bool()
	h.TraySwitch = f.bool()
	h.Tumble = f.bool()
	h.CUPS.Width = f.uint()
	h.CUPS.Height = f.uint()
	h.CUPS.MediaType = f.uint()
	h.CUPS.BitsPerColor = f.uint()
	h.CUPS.BitsPerPixel = f.uint()
	h.CUPS.BytesPerLine = f.uint()
	h.CUPS.ColorOrder = f.uint()
	h.CUPS.ColorSpace = f.uint()
	h.CUPS.Compression = f.uint()
	h.CUPS.RowCount = f.uint()
	h.CUPS.RowFeed = f.uint()
	h.CUPS.RowStep = f.uint()
	if !v2 {
		return h
	}

	h.CUPS.NumColors = f.uint()
	h.CUPS.BorderlessScalingFactor = f.float()
	h.CUPS.PageSize[0] = f.float()
	h.CUPS.PageSize[1] = f.float()
	h.CUPS.ImagingBBox.Left = f.float()
	h.CUPS.ImagingBBox.Bottom = f.float()
	h.CUPS.ImagingBBox.Right = f.float()
	h.CUPS.ImagingBBox.Top = f.float()
	for i := range h.CUPS.Integer {
		h.CUPS.Integer[i] = f.uint()
	}
	for i := range h.CUPS.Real {
		h.CUPS.Real[i] = f.float()
	}
	for i := range h.CUPS.String {
		h.CUPS.String[i] = f.cstring()
	}
	h.CUPS.MarkerType = f.cstring()
	h.CUPS.RenderingIntent = f.cstring()
	h.CUPS.PageSizeName = f.cstring()
	return h
}

func encodeCUPSHeader(b []byte, h *CUPSHeader, bo binary.ByteOrder, v2 bool) error {
	f := &fields{b: b, bo: bo}
	f.putCString("MediaClass", h.MediaClass)
	f.putCString("MediaColor", h.MediaColor)
	f.putCString("MediaType", h.MediaType)
	f.putCString("OutputType", h.OutputType)
	f.putUint(h.AdvanceDistance)
	f.putUint(h.AdvanceMedia)
	f.putBool(h.Collate)
	f.putUint(h.CutMedia)
	f.putBool(h.Duplex)
	f.putUint(h.HorizDPI)
	f.putUint(h.VertDPI)
	f.putUint(h.BoundingBox.Left)
	f.putUint(h.BoundingBox.Bottom)
	f.putUint(h.BoundingBox.Right)
	f.putUint(h.BoundingBox.Top)
	f.putBool(h.InsertSheet)
	f.putUint(h.Jog)
	f.putUint(h.LeadingEdge)
	f.putUint(h.MarginLeft)
	f.putUint(h.MarginBottom)
	f.putBool(h.ManualFeed)
	f.putUint(h.MediaPosition)
	f.putUint(h.MediaWeight)
	f.putBool(h.MirrorPrint)
	f.putBool(h.NegativePrint)
	f.putUint(h.NumCopies)
	f.putUint(h.Orientation)
	f.putBool(h.OutputFaceUp)
	f.putUint(h.Width)
	f.putUint(h.Length)
	f.putBool(h.Separations)
	f.putBool(h.TraySwitch)
	f.putBool(h.Tumble)
	f.putUint(h.CUPS.Width)
	f.putUint(h.CUPS.Height)
	f.putUint(h.CUPS.MediaType)
	f.putUint(h.CUPS.BitsPerColor)
	f.putUint(h.CUPS.BitsPerPixel)
	f.putUint(h.CUPS.BytesPerLine)
	f.putUint(h.CUPS.ColorOrder)
	f.putUint(h.CUPS.ColorSpace)
	f.putUint(h.CUPS.Compression)
	f.putUint(h.CUPS.RowCount)
	f.putUint(h.CUPS.RowFeed)
	f.putUint(h.CUPS.RowStep)
	if !v2 {
		return f.err
	}

	f.putUint(h.CUPS.NumColors)
	f.putFloat(h.CUPS.BorderlessScalingFactor)
	f.putFloat(h.CUPS.PageSize[0])
	f.putFloat(h.CUPS.PageSize[1])
	f.putFloat(h.CUPS.ImagingBBox.Left)
	f.putFloat(h.CUPS.ImagingBBox.Bottom)
	f.putFloat(h.CUPS.ImagingBBox.Right)
	f.putFloat(h.CUPS.ImagingBBox.Top)
	for _, v := range h.CUPS.Integer {
		f.putUint(v)
	}
	for _, v := range h.CUPS.Real {
		f.putFloat(v)
	}
	for i, s := range h.CUPS.String {
		f.putCString(fmt.Sprintf("String[%d]", i), s)
	}
	f.putCString("MarkerType", h.CUPS.MarkerType)
	f.putCString("RenderingIntent", h.CUPS.RenderingIntent)
	f.putCString("PageSizeName", h.CUPS.PageSizeName)
	return f.err
}

// URF headers are big-endian and mostly single bytes:
//
//	0      bits per pixel
//	1      color space
//	2      duplex
//	3      quality
//	4      media type
//	5      media position
//	6-11   reserved
//	12-15  width
//	16-19  height
//	20-23  resolution
//	24-31  reserved
func decodeURFHeader(b []byte) *URFHeader {
	f := &fields{b: b, bo: binary.BigEndian}
	h := &URFHeader{}
	h.BitsPerPixel = f.byte()
	h.ColorSpace = f.byte()
	h.Duplex = f.byte()
	h.Quality = f.byte()
	h.MediaType = f.byte()
	h.MediaPosition = f.byte()
	f.skip(6)
	h.Width = f.uint()
	h.Height = f.uint()
	h.DPI = f.uint()
	return h
}

func encodeURFHeader(b []byte, h *URFHeader) {
	f := &fields{b: b, bo: binary.BigEndian}
	f.putByte(h.BitsPerPixel)
	f.putByte(h.ColorSpace)
	f.putByte(h.Duplex)
	f.putByte(h.Quality)
	f.putByte(h.MediaType)
	f.putByte(h.MediaPosition)
	f.putZero(6)
	f.putUint(h.Width)
	f.putUint(h.Height)
	f.putUint(h.DPI)
	f.putZero(8)
}
