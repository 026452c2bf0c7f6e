package raster

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type countingReader struct {
	r *bufio.Reader
	n int64
}

func (r *countingReader) Read(b []byte) (n int, err error) {
	n, err = r.r.Read(b)
	r.n += int64(n)
	return n, err
}

func (r *countingReader) ReadByte() (byte, error) {
	c, err := r.r.ReadByte()
	if err == nil {
		r.n++
	}
	return c, err
}

// A Decoder reads the pages of a raster stream. Pages have to be read
// in order; each page's lines are decoded on demand, one at a time.
type Decoder struct {
	r      *countingReader
	format Format
	cfg    config
	// pageCount is the page count from URF stream headers.
	pageCount int
	err       error
	pageNum   int
	curPage   *Page
	hdr       []byte
	line      []byte
}

// NewDecoder detects the format of the stream in r and returns a
// decoder for it. It returns ErrUnrecognizedFormat if the stream
// doesn't start with a known magic token.
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	cr := &countingReader{r: bufio.NewReader(r)}
	f, err := Detect(cr)
	if err != nil {
		return nil, err
	}
	return newDecoder(cr, f, opts)
}

// NewDecoderFormat returns a decoder for a stream of format f whose
// magic token has already been consumed from r, for example by
// Detect. For URF streams, r must still hold the page count.
func NewDecoderFormat(r io.Reader, f Format, opts ...Option) (*Decoder, error) {
	if !f.Version.valid() {
		return nil, ErrUnrecognizedFormat
	}
	magic, err := f.magic()
	if err != nil {
		return nil, err
	}
	cr := &countingReader{r: bufio.NewReader(r), n: int64(len(magic))}
	return newDecoder(cr, f, opts)
}

func newDecoder(r *countingReader, f Format, opts []Option) (*Decoder, error) {
	d := &Decoder{
		r:      r,
		format: f,
		cfg:    newConfig(opts),
		hdr:    make([]byte, HeaderSize(f.Version)),
	}
	if f.Version == VersionURF {
		b := make([]byte, 4)
		if _, err := io.ReadFull(d.r, b); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				err = ErrTruncatedHeader
			}
			return nil, &FormatError{Offset: d.r.n, Field: "page count", Err: err}
		}
		d.pageCount = int(binary.BigEndian.Uint32(b))
	}
	d.cfg.log.Debug("detected raster stream", "version", f.Version, "format", f, "pages", d.pageCount)
	return d, nil
}

// Format returns the format of the stream.
func (d *Decoder) Format() Format { return d.format }

// PageCount returns the number of pages announced by a URF stream's
// header. It returns zero for CUPS streams and for URF streams that
// don't announce their length.
func (d *Decoder) PageCount() int { return d.pageCount }

func (d *Decoder) fail(field string, off int64, err error) error {
	var ferr *FormatError
	if !errors.As(err, &ferr) && err != io.EOF {
		err = &FormatError{Page: d.pageNum, Offset: off, Field: field, Err: err}
	}
	d.err = err
	return err
}

// A Page is one page of a raster stream.
type Page struct {
	Header PageHeader

	dec       *Decoder
	num       int
	layout    Layout
	line      []byte
	lineRep   int
	linesRead int
}

// NextPage returns the next page in the raster stream. It returns
// io.EOF when the stream ends cleanly, after the last page. Lines of
// the previous page that haven't been read yet are skipped. After a
// call to NextPage, all previously returned pages from this decoder
// cannot be used to decode image data anymore. Their header data,
// however, remains valid.
func (d *Decoder) NextPage() (*Page, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.curPage != nil {
		if err := d.curPage.discard(); err != nil {
			return nil, err
		}
		d.curPage = nil
		d.pageNum++
	}

	start := d.r.n
	if _, err := io.ReadFull(d.r, d.hdr); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = fmt.Errorf("%w: %w", ErrTruncatedHeader, err)
		}
		return nil, d.fail("header", start, err)
	}
	h, err := DecodeHeader(d.hdr, d.format)
	if err != nil {
		return nil, d.fail("header", start, err)
	}
	l := h.Layout()
	if err := d.cfg.limits.check(l); err != nil {
		return nil, d.fail("header", start, err)
	}
	if cap(d.line) < l.BytesPerLine {
		d.line = make([]byte, l.BytesPerLine)
	}
	p := &Page{
		Header: h,
		dec:    d,
		num:    d.pageNum,
		layout: l,
		line:   d.line[:l.BytesPerLine],
	}
	d.curPage = p
	d.cfg.log.Debug("page",
		"version", d.format.Version,
		"page", p.num,
		"offset", start,
		"width", l.Width,
		"height", l.Height,
		"bytesPerLine", l.BytesPerLine)
	return p, nil
}

func (p *Page) discard() error {
	for p.UnreadLines() > 0 {
		if err := p.ReadLine(p.line); err != nil {
			return err
		}
	}
	return nil
}

// Number returns the zero-based index of the page in its stream.
func (p *Page) Number() int { return p.num }

// Format returns the format of the stream the page belongs to.
// Samples wider than 8 bits are stored in its byte order.
func (p *Page) Format() Format { return p.dec.format }

// Layout returns the pixel layout of the page.
func (p *Page) Layout() Layout { return p.layout }

// LineSize returns the number of bytes in a line.
func (p *Page) LineSize() int { return p.layout.BytesPerLine }

// TotalSize returns the number of bytes of pixel data in the page.
func (p *Page) TotalSize() int { return int(p.layout.Size()) }

// UnreadLines returns the number of unread lines in the page.
func (p *Page) UnreadLines() int {
	return p.layout.Lines() - p.linesRead
}

// ReadLine decodes the next line of pixels into b. It returns io.EOF
// if no more lines can be read. The buffer b must be at least
// p.LineSize() bytes large.
func (p *Page) ReadLine(b []byte) error {
	d := p.dec
	if d.curPage != p {
		return ErrStalePage
	}
	if d.err != nil {
		return d.err
	}
	if len(b) < p.layout.BytesPerLine {
		return ErrBufferTooSmall
	}
	if p.UnreadLines() == 0 {
		return io.EOF
	}
	b = b[:p.layout.BytesPerLine]
	start := d.r.n
	var err error
	if d.format.Version.Compressed() {
		err = p.readCompressedLine(b)
	} else {
		err = p.readRawLine(b)
	}
	if err != nil {
		return d.fail(fmt.Sprintf("line %d", p.linesRead), start, err)
	}
	p.linesRead++
	return nil
}

func (p *Page) readCompressedLine(b []byte) error {
	if p.lineRep > 0 {
		p.lineRep--
		copy(b, p.line)
		return nil
	}

	r := p.dec.r
	rep, err := r.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return err
	}
	// the count is stored as count - 1, but we're already reading the
	// first line, anyway.
	if int(rep) >= p.UnreadLines() {
		return fmt.Errorf("%w: line repeat of %d exceeds page", ErrOverrun, int(rep)+1)
	}
	if err := DecompressLine(p.line, r, p.layout.GroupSize(), p.layout.White); err != nil {
		return err
	}
	p.lineRep = int(rep)
	copy(b, p.line)
	return nil
}

func (p *Page) readRawLine(b []byte) error {
	_, err := io.ReadFull(p.dec.r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// ReadAll reads the entire page into b. If ReadLine has been called
// previously, ReadAll will read the remainder of the page. It returns
// io.EOF if the entire page has been read already.
func (p *Page) ReadAll(b []byte) error {
	if len(b) < p.TotalSize() {
		return ErrBufferTooSmall
	}
	n := p.UnreadLines()
	if n == 0 {
		return io.EOF
	}
	bpl := p.layout.BytesPerLine
	for i := 0; i < n; i++ {
		start := i * bpl
		end := start + bpl
		if err := p.ReadLine(b[start:end:end]); err != nil {
			return err
		}
	}
	return nil
}
