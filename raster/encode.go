package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// An Encoder writes pages to a raster stream. Each page starts with
// WriteHeader, followed by exactly as many calls to WriteLine as the
// page has lines.
//
// Misuse, such as writing too many lines, is reported without
// affecting the encoder. Errors from the underlying writer are
// returned by every later call.
type Encoder struct {
	w      io.Writer
	format Format
	cfg    config
	err    error
	off    int64

	hdr     []byte
	pageNum int
	inPage  bool
	layout  Layout
	written int

	// pending holds the last line of a compressed page that hasn't
	// been written yet, repeated pendingRep times.
	pending    []byte
	pendingRep int
	buf        []byte
}

// NewEncoder writes the stream header for format f to w and returns
// an encoder for the stream's pages.
func NewEncoder(w io.Writer, f Format, opts ...Option) (*Encoder, error) {
	if !f.Version.valid() {
		return nil, ErrUnrecognizedFormat
	}
	magic, err := f.magic()
	if err != nil {
		return nil, err
	}
	e := &Encoder{
		w:      w,
		format: f,
		cfg:    newConfig(opts),
		hdr:    make([]byte, HeaderSize(f.Version)),
	}
	b := []byte(magic)
	if f.Version == VersionURF {
		b = binary.BigEndian.AppendUint32(b, uint32(e.cfg.pageCount))
	}
	if err := e.write(b); err != nil {
		return nil, err
	}
	e.cfg.log.Debug("started raster stream", "version", f.Version, "format", f)
	return e, nil
}

func (e *Encoder) write(b []byte) error {
	n, err := e.w.Write(b)
	e.off += int64(n)
	if err != nil {
		e.err = err
	}
	return err
}

// WriteHeader starts a new page. It returns ErrPageIncomplete if the
// previous page is missing lines.
func (e *Encoder) WriteHeader(h PageHeader) error {
	if e.err != nil {
		return e.err
	}
	if e.inPage && e.written < e.layout.Lines() {
		return ErrPageIncomplete
	}
	page := e.pageNum
	if e.inPage {
		page++
	}
	if err := encodeHeader(e.hdr, h, e.format); err != nil {
		return &FormatError{Page: page, Offset: e.off, Field: "header", Err: err}
	}
	l := h.Layout()
	if err := e.cfg.limits.check(l); err != nil {
		return &FormatError{Page: page, Offset: e.off, Field: "header", Err: err}
	}
	e.pageNum = page
	e.cfg.log.Debug("page",
		"version", e.format.Version,
		"page", page,
		"offset", e.off,
		"width", l.Width,
		"height", l.Height,
		"bytesPerLine", l.BytesPerLine)
	if err := e.write(e.hdr); err != nil {
		return err
	}
	e.inPage = true
	e.layout = l
	e.written = 0
	e.pendingRep = 0
	if cap(e.pending) < l.BytesPerLine {
		e.pending = make([]byte, l.BytesPerLine)
	}
	e.pending = e.pending[:l.BytesPerLine]
	return nil
}

// WriteLine writes the next line of the current page. b must be
// exactly as long as the page's lines.
func (e *Encoder) WriteLine(b []byte) error {
	if e.err != nil {
		return e.err
	}
	if !e.inPage {
		return ErrNoHeader
	}
	if len(b) != e.layout.BytesPerLine {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrLineLength, len(b), e.layout.BytesPerLine)
	}
	if e.written == e.layout.Lines() {
		return ErrPageOverflow
	}
	if !e.format.Version.Compressed() {
		if err := e.write(b); err != nil {
			return err
		}
		e.written++
		return nil
	}

	if e.pendingRep > 0 && (e.pendingRep == maxLineRepeat || !bytes.Equal(b, e.pending)) {
		if err := e.flush(); err != nil {
			return err
		}
	}
	if e.pendingRep == 0 {
		copy(e.pending, b)
	}
	e.pendingRep++
	e.written++
	if e.written == e.layout.Lines() {
		return e.flush()
	}
	return nil
}

// flush writes the pending line and its repeat count.
func (e *Encoder) flush() error {
	var err error
	e.buf = append(e.buf[:0], byte(e.pendingRep-1))
	e.buf, err = CompressLine(e.buf, e.pending, e.layout.GroupSize())
	if err != nil {
		return err
	}
	e.pendingRep = 0
	return e.write(e.buf)
}

// Close checks that the last page is complete. It doesn't close the
// underlying writer.
func (e *Encoder) Close() error {
	if e.err != nil {
		return e.err
	}
	if e.inPage && e.written < e.layout.Lines() {
		return ErrPageIncomplete
	}
	return nil
}
