package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedFormat is returned when encountering an unknown
	// magic byte sequence. It is indicative of input in a newer
	// format, or input that isn't a raster stream at all.
	ErrUnrecognizedFormat = errors.New("unrecognized raster format or version")

	// ErrTruncatedHeader is returned when the input ends inside a page
	// header.
	ErrTruncatedHeader = errors.New("truncated page header")

	// ErrInvalidField is returned when a header field holds a value
	// outside of its legal range, or when fields contradict each other.
	ErrInvalidField = errors.New("invalid header field")

	// ErrOverrun is returned when compressed data describes more
	// pixels than fit into the line, or more lines than fit into the
	// page.
	ErrOverrun = errors.New("run exceeds line boundary")

	// ErrUnderrun is returned when compressed data ends before the
	// line it describes is complete.
	ErrUnderrun = errors.New("compressed data ends inside line")

	// ErrLineLength is returned by Encoder.WriteLine when the line's
	// length differs from the page's bytes per line.
	ErrLineLength = errors.New("line length does not match header")

	// ErrPageOverflow is returned by Encoder.WriteLine when more lines
	// are written than the page header declares.
	ErrPageOverflow = errors.New("too many lines for page")

	// ErrPageIncomplete is returned when a new page is started, or the
	// encoder is closed, before all lines of the current page have
	// been written.
	ErrPageIncomplete = errors.New("page is incomplete")

	// ErrLimitExceeded is returned when a page header describes lines
	// or pages larger than the configured Limits.
	ErrLimitExceeded = errors.New("page exceeds configured limits")

	// ErrUnsupported is returned when encountering an unsupported
	// feature. This includes unsupported color spaces, color
	// orderings or bit depths.
	ErrUnsupported = errors.New("unsupported feature")

	// ErrBufferTooSmall is returned from ReadLine and ReadAll when
	// the buffer is smaller than Page.LineSize or Page.TotalSize
	// respectively.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrStalePage is returned when reading from a page after the
	// decoder has advanced to the next one.
	ErrStalePage = errors.New("page is no longer current")

	// ErrNoHeader is returned by Encoder.WriteLine when no page has
	// been started.
	ErrNoHeader = errors.New("no page header written")
)

// A FormatError describes where in a stream decoding or encoding
// failed. Page is zero-based; Offset counts bytes from the start of
// the stream, including the magic token.
type FormatError struct {
	Page   int
	Offset int64
	// Field names the part of the stream that failed, such as
	// "header" or "line 12".
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("raster: page %d, offset %d: %s: %v", e.Page, e.Offset, e.Field, e.Err)
	}
	return fmt.Sprintf("raster: page %d, offset %d: %v", e.Page, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// fieldError reports an invalid header field.
type fieldError struct {
	field string
	value int64
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("invalid header field %s: %d", e.field, e.value)
}

func (e *fieldError) Is(target error) bool { return target == ErrInvalidField }

func invalid(field string, v int) error {
	return &fieldError{field: field, value: int64(v)}
}
